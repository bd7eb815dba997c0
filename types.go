package apicontract

import "fmt"

// Kind identifies a Type variant. The string values are the wire names used in
// serialized contracts.
type Kind string

const (
	KindNull           Kind = "null"
	KindBoolean        Kind = "boolean"
	KindBooleanLiteral Kind = "boolean-literal"
	KindString         Kind = "string"
	KindStringLiteral  Kind = "string-literal"
	KindFloat          Kind = "float"
	KindDouble         Kind = "double"
	KindFloatLiteral   Kind = "float-literal"
	KindInt32          Kind = "int32"
	KindInt64          Kind = "int64"
	KindIntLiteral     Kind = "integer-literal"
	KindDate           Kind = "date"
	KindDateTime       Kind = "date-time"
	KindObject         Kind = "object"
	KindArray          Kind = "array"
	KindUnion          Kind = "union"
	KindIntersection   Kind = "intersection"
	KindReference      Kind = "reference"
)

// Type is a node of the contract type algebra. The set of implementations is
// closed: only the variants declared in this file satisfy it.
type Type interface {
	Kind() Kind
	sealed()
}

type (
	NullType           struct{}
	BooleanType        struct{}
	BooleanLiteralType struct{ Value bool }
	StringType         struct{}
	StringLiteralType  struct{ Value string }
	FloatType          struct{}
	DoubleType         struct{}
	FloatLiteralType   struct{ Value float64 }
	Int32Type          struct{}
	Int64Type          struct{}
	IntLiteralType     struct{ Value int64 }
	DateType           struct{}
	DateTimeType       struct{}
)

// ObjectType is a record of named properties. Property order is significant for output.
type ObjectType struct {
	Properties []Property
}

// Property is a single member of an ObjectType.
type Property struct {
	Name        string
	Description string
	Optional    bool
	Type        Type
}

// ArrayType is a homogeneous list.
type ArrayType struct {
	Element Type
}

// UnionType accepts a value of any member type. Discriminator optionally names
// the property that tells object members apart.
type UnionType struct {
	Types         []Type
	Discriminator string
}

// IntersectionType requires a value to satisfy every member type.
type IntersectionType struct {
	Types []Type
}

// ReferenceType points at a named entry of the TypeTable.
type ReferenceType struct {
	Name string
}

func (*NullType) Kind() Kind           { return KindNull }
func (*BooleanType) Kind() Kind        { return KindBoolean }
func (*BooleanLiteralType) Kind() Kind { return KindBooleanLiteral }
func (*StringType) Kind() Kind         { return KindString }
func (*StringLiteralType) Kind() Kind  { return KindStringLiteral }
func (*FloatType) Kind() Kind          { return KindFloat }
func (*DoubleType) Kind() Kind         { return KindDouble }
func (*FloatLiteralType) Kind() Kind   { return KindFloatLiteral }
func (*Int32Type) Kind() Kind          { return KindInt32 }
func (*Int64Type) Kind() Kind          { return KindInt64 }
func (*IntLiteralType) Kind() Kind     { return KindIntLiteral }
func (*DateType) Kind() Kind           { return KindDate }
func (*DateTimeType) Kind() Kind       { return KindDateTime }
func (*ObjectType) Kind() Kind         { return KindObject }
func (*ArrayType) Kind() Kind          { return KindArray }
func (*UnionType) Kind() Kind          { return KindUnion }
func (*IntersectionType) Kind() Kind   { return KindIntersection }
func (*ReferenceType) Kind() Kind      { return KindReference }

func (*NullType) sealed()           {}
func (*BooleanType) sealed()        {}
func (*BooleanLiteralType) sealed() {}
func (*StringType) sealed()         {}
func (*StringLiteralType) sealed()  {}
func (*FloatType) sealed()          {}
func (*DoubleType) sealed()         {}
func (*FloatLiteralType) sealed()   {}
func (*Int32Type) sealed()          {}
func (*Int64Type) sealed()          {}
func (*IntLiteralType) sealed()     {}
func (*DateType) sealed()           {}
func (*DateTimeType) sealed()       {}
func (*ObjectType) sealed()         {}
func (*ArrayType) sealed()          {}
func (*UnionType) sealed()          {}
func (*IntersectionType) sealed()   {}
func (*ReferenceType) sealed()      {}

// ---- constructors ----

func Null() Type                      { return &NullType{} }
func Boolean() Type                   { return &BooleanType{} }
func BooleanLiteral(v bool) Type      { return &BooleanLiteralType{Value: v} }
func String() Type                    { return &StringType{} }
func StringLiteral(v string) Type     { return &StringLiteralType{Value: v} }
func Float() Type                     { return &FloatType{} }
func Double() Type                    { return &DoubleType{} }
func FloatLiteral(v float64) Type     { return &FloatLiteralType{Value: v} }
func Int32() Type                     { return &Int32Type{} }
func Int64() Type                     { return &Int64Type{} }
func IntLiteral(v int64) Type         { return &IntLiteralType{Value: v} }
func Date() Type                      { return &DateType{} }
func DateTime() Type                  { return &DateTimeType{} }
func Object(props ...Property) Type   { return &ObjectType{Properties: props} }
func Array(elem Type) Type            { return &ArrayType{Element: elem} }
func Union(types ...Type) Type        { return &UnionType{Types: types} }
func Intersection(types ...Type) Type { return &IntersectionType{Types: types} }
func Reference(name string) Type      { return &ReferenceType{Name: name} }

// Prop builds a required property.
func Prop(name string, t Type) Property { return Property{Name: name, Type: t} }

// OptionalProp builds an optional property.
func OptionalProp(name string, t Type) Property { return Property{Name: name, Type: t, Optional: true} }

// DiscriminatedUnion builds a union with an explicit discriminator property.
func DiscriminatedUnion(discriminator string, types ...Type) Type {
	return &UnionType{Types: types, Discriminator: discriminator}
}

// ---- predicates ----

// IsNull reports whether t is the null type.
func IsNull(t Type) bool { return t.Kind() == KindNull }

// IsLiteral reports whether t is one of the literal variants.
func IsLiteral(t Type) bool {
	switch t.Kind() {
	case KindBooleanLiteral, KindStringLiteral, KindFloatLiteral, KindIntLiteral:
		return true
	}
	return false
}

// IsPrimitive reports whether t is a scalar (including null and literals).
func IsPrimitive(t Type) bool {
	switch t := t.(type) {
	case *NullType, *BooleanType, *BooleanLiteralType, *StringType, *StringLiteralType,
		*FloatType, *DoubleType, *FloatLiteralType, *Int32Type, *Int64Type, *IntLiteralType,
		*DateType, *DateTimeType:
		return true
	case *ObjectType, *ArrayType, *UnionType, *IntersectionType, *ReferenceType:
		return false
	default:
		panic(unhandled(t))
	}
}

// group is a compatibility class used when intersecting property declarations.
type group int

const (
	groupNone group = iota
	groupString
	groupBoolean
	groupInt
	groupFloat
)

func groupOf(t Type) group {
	switch t.Kind() {
	case KindString, KindStringLiteral:
		return groupString
	case KindBoolean, KindBooleanLiteral:
		return groupBoolean
	case KindInt32, KindInt64, KindIntLiteral:
		return groupInt
	case KindFloat, KindFloatLiteral:
		return groupFloat
	}
	return groupNone
}

// sameGroup returns the shared group of all types, or groupNone.
func sameGroup(types []Type) group {
	if len(types) == 0 {
		return groupNone
	}
	g := groupOf(types[0])
	for _, t := range types[1:] {
		if groupOf(t) != g {
			return groupNone
		}
	}
	return g
}

// literalValue returns the literal payload of t as a comparable value.
func literalValue(t Type) (any, bool) {
	switch t := t.(type) {
	case *BooleanLiteralType:
		return t.Value, true
	case *StringLiteralType:
		return t.Value, true
	case *FloatLiteralType:
		return t.Value, true
	case *IntLiteralType:
		return t.Value, true
	}
	return nil, false
}

// LiteralValues returns the literal payloads of types when every type is a
// literal of the same kind. ok is false for empty or mixed input.
func LiteralValues(types []Type) (values []any, kind Kind, ok bool) {
	if len(types) == 0 {
		return nil, "", false
	}
	kind = types[0].Kind()
	for _, t := range types {
		if t.Kind() != kind {
			return nil, "", false
		}
		v, isLit := literalValue(t)
		if !isLit {
			return nil, "", false
		}
		values = append(values, v)
	}
	return values, kind, true
}

// WithoutNull splits types into non-null members and reports whether null was present.
func WithoutNull(types []Type) (rest []Type, hadNull bool) {
	for _, t := range types {
		if IsNull(t) {
			hadNull = true
			continue
		}
		rest = append(rest, t)
	}
	return rest, hadNull
}

// Describe renders a short human-readable form of t for error messages.
func Describe(t Type) string {
	switch t := t.(type) {
	case nil:
		return "<nil>"
	case *NullType, *BooleanType, *StringType, *FloatType, *DoubleType,
		*Int32Type, *Int64Type, *DateType, *DateTimeType:
		return string(t.Kind())
	case *BooleanLiteralType:
		return fmt.Sprintf("%t", t.Value)
	case *StringLiteralType:
		return fmt.Sprintf("%q", t.Value)
	case *FloatLiteralType:
		return fmt.Sprintf("%v", t.Value)
	case *IntLiteralType:
		return fmt.Sprintf("%d", t.Value)
	case *ObjectType:
		s := "{"
		for i, p := range t.Properties {
			if i > 0 {
				s += ", "
			}
			s += p.Name
			if p.Optional {
				s += "?"
			}
			s += ": " + Describe(p.Type)
		}
		return s + "}"
	case *ArrayType:
		return Describe(t.Element) + "[]"
	case *UnionType:
		return joinDescribed(t.Types, " | ")
	case *IntersectionType:
		return joinDescribed(t.Types, " & ")
	case *ReferenceType:
		return t.Name
	default:
		panic(unhandled(t))
	}
}

func joinDescribed(types []Type, sep string) string {
	if len(types) == 0 {
		return "never"
	}
	s := "("
	for i, m := range types {
		if i > 0 {
			s += sep
		}
		s += Describe(m)
	}
	return s + ")"
}

func unhandled(t Type) string {
	return fmt.Sprintf("apicontract: unhandled type %T", t)
}

// Equal reports whether a and b are structurally identical. References compare
// by name and are not followed.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *NullType, *BooleanType, *StringType, *FloatType, *DoubleType,
		*Int32Type, *Int64Type, *DateType, *DateTimeType:
		return true
	case *BooleanLiteralType:
		return a.Value == b.(*BooleanLiteralType).Value
	case *StringLiteralType:
		return a.Value == b.(*StringLiteralType).Value
	case *FloatLiteralType:
		return a.Value == b.(*FloatLiteralType).Value
	case *IntLiteralType:
		return a.Value == b.(*IntLiteralType).Value
	case *ObjectType:
		bo := b.(*ObjectType)
		if len(a.Properties) != len(bo.Properties) {
			return false
		}
		for i, p := range a.Properties {
			q := bo.Properties[i]
			if p.Name != q.Name || p.Optional != q.Optional || !Equal(p.Type, q.Type) {
				return false
			}
		}
		return true
	case *ArrayType:
		return Equal(a.Element, b.(*ArrayType).Element)
	case *UnionType:
		bu := b.(*UnionType)
		return a.Discriminator == bu.Discriminator && equalList(a.Types, bu.Types)
	case *IntersectionType:
		return equalList(a.Types, b.(*IntersectionType).Types)
	case *ReferenceType:
		return a.Name == b.(*ReferenceType).Name
	default:
		panic(unhandled(a))
	}
}

func equalList(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
