package apicontract

import (
	"errors"
	"fmt"
)

// Contract-shape error classes. They describe defects in the contract itself
// and abort emission or verification; compliance mismatches are never errors.
var (
	ErrUnknownReference          = errors.New("apicontract: reference to unknown type")
	ErrCyclicReference           = errors.New("apicontract: cyclic reference")
	ErrEmptyUnion                = errors.New("apicontract: union has no members")
	ErrEmptyIntersection         = errors.New("apicontract: intersection has no members")
	ErrNeverIntersection         = errors.New("apicontract: intersection evaluates to never")
	ErrUnsatisfiableIntersection = errors.New("apicontract: intersection member is not an object")
	ErrDuplicateType             = errors.New("apicontract: duplicate type name")
	ErrTableSealed               = errors.New("apicontract: type table is sealed")
	ErrUnsupported               = errors.New("apicontract: unsupported type")
)

// ShapeError identifies the type node that made an operation fail.
type ShapeError struct {
	Op   string // operation, e.g. "dereference" or "openapi2 parameter"
	Name string // named type involved, if any
	Type Type   // offending node, if any
	Err  error  // one of the Err* sentinels, possibly wrapped
}

func (e *ShapeError) Error() string {
	msg := "apicontract: " + e.Op
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.Type != nil {
		msg += " on " + Describe(e.Type)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ShapeError) Unwrap() error { return e.Err }

func shapeErr(op string, t Type, err error) error {
	return &ShapeError{Op: op, Type: t, Err: err}
}

func namedErr(op, name string, err error) error {
	return &ShapeError{Op: op, Name: name, Err: err}
}

// NewShapeError builds a ShapeError for callers outside this package, such as
// dialect emitters rejecting a type they cannot express.
func NewShapeError(op string, t Type, err error) error {
	return shapeErr(op, t, err)
}

// IsShapeError reports whether err is a contract-shape error.
func IsShapeError(err error) bool {
	var se *ShapeError
	return errors.As(err, &se)
}
