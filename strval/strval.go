// Package strval checks whether text taken from a path segment, header or
// query string is a legal serialization of a contract type.
//
// Unions are checked branch by branch over the possible root types and pass
// on the first branch that accepts the value. When every branch fails the
// messages of all branches are returned, de-duplicated, in branch order.
package strval

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/reoring/apicontract"
)

var (
	intPattern   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
	datePattern  = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
)

// Validate reports the disparities between v and t. An empty result means v
// is acceptable. The error is reserved for contract-shape problems such as
// unknown references.
func Validate(table *apicontract.TypeTable, v Value, t apicontract.Type) ([]string, error) {
	return checker{table: table}.check(v, t)
}

// ValidateText is Validate for a single text.
func ValidateText(table *apicontract.TypeTable, text string, t apicontract.Type) ([]string, error) {
	return Validate(table, Text(text), t)
}

type checker struct {
	table *apicontract.TypeTable
}

func (c checker) check(v Value, t apicontract.Type) ([]string, error) {
	roots, err := apicontract.PossibleRootTypes(t, c.table)
	if err != nil {
		return nil, err
	}
	var out messages
	for _, root := range roots {
		msgs, err := c.root(v, root)
		if err != nil {
			return nil, err
		}
		if len(msgs) == 0 {
			return nil, nil
		}
		out.add("", msgs...)
	}
	return out.list, nil
}

func (c checker) root(v Value, root apicontract.Type) ([]string, error) {
	switch root := root.(type) {
	case *apicontract.ArrayType:
		return c.array(v, root)
	case *apicontract.ObjectType:
		return c.object(v, root)
	}
	switch v.shape {
	case ShapeList:
		return []string{fmt.Sprintf("expected %s, got a list of %d values", apicontract.Describe(root), len(v.list))}, nil
	case ShapeFields:
		return []string{fmt.Sprintf("expected %s, got fields %s", apicontract.Describe(root), v)}, nil
	}
	if msg := scalar(v.text, root); msg != "" {
		return []string{msg}, nil
	}
	return nil, nil
}

func (c checker) array(v Value, arr *apicontract.ArrayType) ([]string, error) {
	if v.shape == ShapeFields {
		return []string{fmt.Sprintf("expected %s, got fields %s", apicontract.Describe(arr), v)}, nil
	}
	elemRoots, err := apicontract.PossibleRootTypes(arr.Element, c.table)
	if err != nil {
		return nil, err
	}
	for _, r := range elemRoots {
		if r.Kind() == apicontract.KindArray {
			return []string{fmt.Sprintf("expected %s: nested arrays cannot be expressed as text", apicontract.Describe(arr))}, nil
		}
	}
	var out messages
	for i, item := range v.Texts() {
		msgs, err := c.check(Text(item), arr.Element)
		if err != nil {
			return nil, err
		}
		out.add(fmt.Sprintf("[%d] ", i), msgs...)
	}
	return out.list, nil
}

func (c checker) object(v Value, obj *apicontract.ObjectType) ([]string, error) {
	if v.shape != ShapeFields {
		return []string{fmt.Sprintf("expected %s, got %q", apicontract.Describe(obj), v.String())}, nil
	}
	var out messages
	for _, p := range obj.Properties {
		fv, ok := v.Field(p.Name)
		if !ok {
			if !p.Optional {
				out.add("", fmt.Sprintf("missing required field %q", p.Name))
			}
			continue
		}
		msgs, err := c.check(fv, p.Type)
		if err != nil {
			return nil, err
		}
		out.add(p.Name+": ", msgs...)
	}
	for _, f := range v.fields {
		if !declared(obj, f.Name) {
			out.add("", fmt.Sprintf("unknown field %q", f.Name))
		}
	}
	return out.list, nil
}

func declared(obj *apicontract.ObjectType, name string) bool {
	for _, p := range obj.Properties {
		if p.Name == name {
			return true
		}
	}
	return false
}

// scalar returns a disparity message, or "" when text is a valid t.
func scalar(text string, t apicontract.Type) string {
	mismatch := fmt.Sprintf("expected %s, got %q", apicontract.Describe(t), text)
	switch t := t.(type) {
	case *apicontract.NullType:
		if text == "" || text == "null" {
			return ""
		}
		return mismatch
	case *apicontract.BooleanType:
		if text == "true" || text == "false" {
			return ""
		}
		return mismatch
	case *apicontract.BooleanLiteralType:
		if text == strconv.FormatBool(t.Value) {
			return ""
		}
		return mismatch
	case *apicontract.StringType:
		return ""
	case *apicontract.StringLiteralType:
		if text == t.Value {
			return ""
		}
		return mismatch
	case *apicontract.Int32Type:
		return integer(text, 32, t, mismatch)
	case *apicontract.Int64Type:
		return integer(text, 64, t, mismatch)
	case *apicontract.IntLiteralType:
		if !intPattern.MatchString(text) {
			return mismatch
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil || n != t.Value {
			return mismatch
		}
		return ""
	case *apicontract.FloatType:
		return float(text, 32, t, mismatch)
	case *apicontract.DoubleType:
		return float(text, 64, t, mismatch)
	case *apicontract.FloatLiteralType:
		if !floatPattern.MatchString(text) {
			return mismatch
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || f != t.Value {
			return mismatch
		}
		return ""
	case *apicontract.DateType:
		if !datePattern.MatchString(text) {
			return mismatch
		}
		if _, err := time.Parse(time.DateOnly, text); err != nil {
			return mismatch
		}
		return ""
	case *apicontract.DateTimeType:
		if _, err := parseRFC3339(text); err != nil {
			return mismatch
		}
		return ""
	default:
		panic(fmt.Sprintf("strval: unhandled root type %T", t))
	}
}

func integer(text string, bits int, t apicontract.Type, mismatch string) string {
	if !intPattern.MatchString(text) {
		return mismatch
	}
	if _, err := strconv.ParseInt(text, 10, bits); err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return fmt.Sprintf("%q is out of range for %s", text, apicontract.Describe(t))
		}
		return mismatch
	}
	return ""
}

func float(text string, bits int, t apicontract.Type, mismatch string) string {
	if !floatPattern.MatchString(text) {
		return mismatch
	}
	if _, err := strconv.ParseFloat(text, bits); err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return fmt.Sprintf("%q is out of range for %s", text, apicontract.Describe(t))
		}
		return mismatch
	}
	return ""
}

func parseRFC3339(s string) (time.Time, error) {
	// accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// messages is an ordered, de-duplicated list of disparity lines.
type messages struct {
	list []string
	seen map[string]struct{}
}

func (m *messages) add(prefix string, msgs ...string) {
	if m.seen == nil {
		m.seen = map[string]struct{}{}
	}
	for _, msg := range msgs {
		msg = prefix + msg
		if _, dup := m.seen[msg]; dup {
			continue
		}
		m.seen[msg] = struct{}{}
		m.list = append(m.list, msg)
	}
}
