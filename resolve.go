package apicontract

// Dereference follows references until it reaches a type that is not a
// reference. Unions and intersections are returned as they are.
func Dereference(t Type, table *TypeTable) (Type, error) {
	var seen map[string]struct{}
	for {
		ref, ok := t.(*ReferenceType)
		if !ok {
			return t, nil
		}
		if seen == nil {
			seen = make(map[string]struct{})
		}
		if _, dup := seen[ref.Name]; dup {
			return nil, namedErr("dereference", ref.Name, ErrCyclicReference)
		}
		seen[ref.Name] = struct{}{}
		def, err := table.Lookup(ref.Name)
		if err != nil {
			return nil, err
		}
		t = def.Type
	}
}

// PossibleRootTypes lists the concrete variants a value of t may take.
// References are followed, unions are flattened in member order (duplicates
// kept) and intersections collapse into one narrowed object. A Null member of
// an intersection does not take part in narrowing; it is appended as a
// trailing Null root.
func PossibleRootTypes(t Type, table *TypeTable) ([]Type, error) {
	r := rootResolver{table: table, visiting: map[string]bool{}}
	return r.roots(t)
}

type rootResolver struct {
	table    *TypeTable
	visiting map[string]bool
}

func (r *rootResolver) roots(t Type) ([]Type, error) {
	switch t := t.(type) {
	case *NullType, *BooleanType, *BooleanLiteralType, *StringType, *StringLiteralType,
		*FloatType, *DoubleType, *FloatLiteralType, *Int32Type, *Int64Type, *IntLiteralType,
		*DateType, *DateTimeType, *ObjectType, *ArrayType:
		return []Type{t}, nil
	case *ReferenceType:
		if r.visiting[t.Name] {
			return nil, namedErr("possible root types", t.Name, ErrCyclicReference)
		}
		def, err := r.table.Lookup(t.Name)
		if err != nil {
			return nil, err
		}
		r.visiting[t.Name] = true
		out, err := r.roots(def.Type)
		delete(r.visiting, t.Name)
		return out, err
	case *UnionType:
		if len(t.Types) == 0 {
			return nil, shapeErr("possible root types", t, ErrEmptyUnion)
		}
		var out []Type
		for _, m := range t.Types {
			rs, err := r.roots(m)
			if err != nil {
				return nil, err
			}
			out = append(out, rs...)
		}
		return out, nil
	case *IntersectionType:
		if len(t.Types) == 0 {
			return nil, shapeErr("possible root types", t, ErrEmptyIntersection)
		}
		var objects []*ObjectType
		nullable := false
		for _, m := range t.Types {
			rs, err := r.roots(m)
			if err != nil {
				return nil, err
			}
			for _, root := range rs {
				switch root := root.(type) {
				case *ObjectType:
					objects = append(objects, root)
				case *NullType:
					nullable = true
				default:
					return nil, shapeErr("possible root types", t, ErrUnsatisfiableIntersection)
				}
			}
		}
		var out []Type
		if len(objects) > 0 {
			merged, err := ResolveIntersectionToNarrowestType(objects, r.table)
			if err != nil {
				return nil, err
			}
			out = append(out, merged)
		}
		if nullable {
			out = append(out, Null())
		}
		return out, nil
	default:
		panic(unhandled(t))
	}
}

// InferDiscriminator looks for the single property that tells the object
// members of a union apart: required, a string literal on every root, with
// pairwise distinct values. Null members are ignored. It returns "" when no
// property or more than one property qualifies.
func InferDiscriminator(members []Type, table *TypeTable) (string, error) {
	var objects []*ObjectType
	for _, m := range members {
		rs, err := PossibleRootTypes(m, table)
		if err != nil {
			return "", err
		}
		for _, root := range rs {
			switch root := root.(type) {
			case *NullType:
			case *ObjectType:
				objects = append(objects, root)
			default:
				return "", nil
			}
		}
	}
	if len(objects) == 0 {
		return "", nil
	}

	var order []string
	values := map[string]map[string]struct{}{}
	for _, obj := range objects {
		for _, p := range obj.Properties {
			if p.Optional {
				continue
			}
			pt, err := Dereference(p.Type, table)
			if err != nil {
				return "", err
			}
			lit, ok := pt.(*StringLiteralType)
			if !ok {
				continue
			}
			if _, seen := values[p.Name]; !seen {
				values[p.Name] = map[string]struct{}{}
				order = append(order, p.Name)
			}
			values[p.Name][lit.Value] = struct{}{}
		}
	}

	found := ""
	for _, name := range order {
		if len(values[name]) != len(objects) {
			continue
		}
		if found != "" {
			return "", nil
		}
		found = name
	}
	return found, nil
}

// ResolveIntersectionToNarrowestType merges the properties of objects into a
// single object. Same-named declarations of one scalar group narrow to the
// literal when one is present, object-valued declarations combine into an
// IntersectionType, and identical declarations collapse. Anything else fails
// with ErrNeverIntersection.
func ResolveIntersectionToNarrowestType(objects []*ObjectType, table *TypeTable) (*ObjectType, error) {
	var order []string
	decls := map[string][]Property{}
	for _, obj := range objects {
		for _, p := range obj.Properties {
			if _, ok := decls[p.Name]; !ok {
				order = append(order, p.Name)
			}
			decls[p.Name] = append(decls[p.Name], p)
		}
	}

	out := &ObjectType{Properties: make([]Property, 0, len(order))}
	for _, name := range order {
		ps := decls[name]
		merged := Property{Name: name, Optional: true}
		types := make([]Type, 0, len(ps))
		for _, p := range ps {
			if !p.Optional {
				merged.Optional = false
			}
			if merged.Description == "" {
				merged.Description = p.Description
			}
			types = append(types, p.Type)
		}
		t, err := narrowProperty(name, types, table)
		if err != nil {
			return nil, err
		}
		merged.Type = t
		out.Properties = append(out.Properties, merged)
	}
	return out, nil
}

func narrowProperty(name string, types []Type, table *TypeTable) (Type, error) {
	if len(types) == 1 {
		return types[0], nil
	}
	if allEqual(types) {
		return types[0], nil
	}

	derefs := make([]Type, len(types))
	for i, t := range types {
		d, err := Dereference(t, table)
		if err != nil {
			return nil, err
		}
		derefs[i] = d
	}

	if g := sameGroup(derefs); g != groupNone {
		var lit Type
		var fallback Type
		for _, d := range derefs {
			if IsLiteral(d) {
				if lit != nil && !Equal(lit, d) {
					return nil, namedErr("narrow intersection", name, ErrNeverIntersection)
				}
				lit = d
				continue
			}
			if fallback == nil || (g == groupInt && d.Kind() == KindInt32) {
				fallback = d
			}
		}
		if lit != nil {
			return lit, nil
		}
		return fallback, nil
	}

	if allObjectLike(derefs) {
		var members []Type
		for _, t := range types {
			dup := false
			for _, m := range members {
				if Equal(m, t) {
					dup = true
					break
				}
			}
			if !dup {
				members = append(members, t)
			}
		}
		if len(members) == 1 {
			return members[0], nil
		}
		return Intersection(members...), nil
	}

	if allEqual(derefs) {
		return derefs[0], nil
	}
	return nil, namedErr("narrow intersection", name, ErrNeverIntersection)
}

func allObjectLike(types []Type) bool {
	for _, t := range types {
		switch t.(type) {
		case *ObjectType, *IntersectionType:
		default:
			return false
		}
	}
	return true
}

func allEqual(types []Type) bool {
	for _, t := range types[1:] {
		if !Equal(types[0], t) {
			return false
		}
	}
	return true
}

// DoesInterfaceEvaluateToNever reports whether intersecting types can never
// be satisfied: some property carries two different literals of one group, or
// its declarations mix kinds outside the string, boolean, int and float groups.
// Null and non-object roots are ignored.
func DoesInterfaceEvaluateToNever(types []Type, table *TypeTable) (bool, error) {
	var order []string
	decls := map[string][]Type{}
	for _, m := range types {
		rs, err := PossibleRootTypes(m, table)
		if err != nil {
			return false, err
		}
		for _, root := range rs {
			obj, ok := root.(*ObjectType)
			if !ok {
				continue
			}
			for _, p := range obj.Properties {
				pt, err := Dereference(p.Type, table)
				if err != nil {
					return false, err
				}
				if _, seen := decls[p.Name]; !seen {
					order = append(order, p.Name)
				}
				decls[p.Name] = append(decls[p.Name], pt)
			}
		}
	}

	for _, name := range order {
		ts := decls[name]
		if sameGroup(ts) != groupNone {
			var first Type
			for _, t := range ts {
				if !IsLiteral(t) {
					continue
				}
				if first == nil {
					first = t
				} else if !Equal(first, t) {
					return true, nil
				}
			}
			continue
		}
		for _, t := range ts[1:] {
			if t.Kind() != ts[0].Kind() {
				return true, nil
			}
		}
	}
	return false, nil
}
