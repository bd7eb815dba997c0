package apicontract

import (
	"iter"

	"github.com/reoring/apicontract/internal/ordered"
)

// TypeDef is the definition stored under a name in the TypeTable.
type TypeDef struct {
	Type        Type
	Description string
}

// NamedType pairs a name with its definition, in declaration order.
type NamedType struct {
	Name string
	Def  TypeDef
}

// TypeTable maps type names to definitions. Entries can only be added, and
// only until Seal is called; after that the table is safe for concurrent reads.
type TypeTable struct {
	defs   *ordered.Map[TypeDef]
	sealed bool
}

// NewTypeTable returns an empty, unsealed table.
func NewTypeTable() *TypeTable {
	return &TypeTable{defs: ordered.New[TypeDef]()}
}

// Add registers def under name.
func (t *TypeTable) Add(name string, def TypeDef) error {
	if t.sealed {
		return namedErr("add type", name, ErrTableSealed)
	}
	if t.defs.Has(name) {
		return namedErr("add type", name, ErrDuplicateType)
	}
	t.defs.Set(name, def)
	return nil
}

// Seal freezes the table.
func (t *TypeTable) Seal() { t.sealed = true }

// Sealed reports whether Seal was called.
func (t *TypeTable) Sealed() bool { return t.sealed }

// Get returns the definition for name.
func (t *TypeTable) Get(name string) (TypeDef, bool) {
	if t == nil {
		return TypeDef{}, false
	}
	return t.defs.Get(name)
}

// Lookup is Get that fails with ErrUnknownReference.
func (t *TypeTable) Lookup(name string) (TypeDef, error) {
	def, ok := t.Get(name)
	if !ok {
		return TypeDef{}, namedErr("lookup", name, ErrUnknownReference)
	}
	return def, nil
}

// Exists reports whether name is defined.
func (t *TypeTable) Exists(name string) bool {
	_, ok := t.Get(name)
	return ok
}

// Len returns the number of definitions.
func (t *TypeTable) Len() int {
	if t == nil {
		return 0
	}
	return t.defs.Len()
}

// Names returns type names in insertion order.
func (t *TypeTable) Names() []string {
	if t == nil {
		return nil
	}
	return t.defs.Keys()
}

// All iterates definitions in insertion order.
func (t *TypeTable) All() iter.Seq2[string, TypeDef] {
	if t == nil {
		return func(func(string, TypeDef) bool) {}
	}
	return t.defs.All()
}

// BuildTypeTable adds every definition, checks the result for shape errors and
// seals it.
func BuildTypeTable(types []NamedType) (*TypeTable, error) {
	table := NewTypeTable()
	for _, nt := range types {
		if err := table.Add(nt.Name, nt.Def); err != nil {
			return nil, err
		}
	}
	for name, def := range table.All() {
		if err := checkDefinition(def.Type, table); err != nil {
			return nil, &ShapeError{Op: "define", Name: name, Err: err}
		}
		// cycles with nothing structural in between, e.g. A = B, B = A | string
		if _, err := PossibleRootTypes(Reference(name), table); err != nil {
			return nil, &ShapeError{Op: "define", Name: name, Err: err}
		}
	}
	table.Seal()
	return table, nil
}

// CheckType runs the definition-time checks against a type used outside the
// table, such as a header or body type on an endpoint.
func CheckType(t Type, table *TypeTable) error {
	return checkDefinition(t, table)
}

// checkDefinition walks t structurally without following references, so
// recursion through object properties and array elements terminates.
func checkDefinition(t Type, table *TypeTable) error {
	switch t := t.(type) {
	case *NullType, *BooleanType, *BooleanLiteralType, *StringType, *StringLiteralType,
		*FloatType, *DoubleType, *FloatLiteralType, *Int32Type, *Int64Type, *IntLiteralType,
		*DateType, *DateTimeType:
		return nil
	case *ObjectType:
		for _, p := range t.Properties {
			if err := checkDefinition(p.Type, table); err != nil {
				return err
			}
		}
		return nil
	case *ArrayType:
		return checkDefinition(t.Element, table)
	case *UnionType:
		if len(t.Types) == 0 {
			return shapeErr("define", t, ErrEmptyUnion)
		}
		for _, m := range t.Types {
			if err := checkDefinition(m, table); err != nil {
				return err
			}
		}
		return nil
	case *IntersectionType:
		if len(t.Types) == 0 {
			return shapeErr("define", t, ErrEmptyIntersection)
		}
		for _, m := range t.Types {
			if err := checkDefinition(m, table); err != nil {
				return err
			}
		}
		never, err := DoesInterfaceEvaluateToNever(t.Types, table)
		if err != nil {
			return err
		}
		if never {
			return shapeErr("define", t, ErrNeverIntersection)
		}
		_, err = PossibleRootTypes(t, table)
		return err
	case *ReferenceType:
		if !table.Exists(t.Name) {
			return namedErr("define", t.Name, ErrUnknownReference)
		}
		return nil
	default:
		panic(unhandled(t))
	}
}
