package hierarchy

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic checking via errors.Is().
var (
	// ErrMissingInput indicates an empty or null payload.
	ErrMissingInput = errors.New("missing input")

	// ErrShape indicates a malformed top-level document.
	ErrShape = errors.New("invalid shape")

	// ErrEntity indicates an entity that fails schema validation.
	ErrEntity = errors.New("invalid entity")

	// ErrDanglingReference indicates a parent_id with no matching entity.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrCycle indicates entities whose parent chain never reaches a root.
	ErrCycle = errors.New("cyclic reference")
)

// ShapeError reports a top-level structural violation.
type ShapeError struct {
	Key string // Offending bucket key, empty when the document itself is wrong
	Msg string
	Err error // Optional underlying decode error
}

func (e *ShapeError) Error() string {
	if e == nil {
		return ""
	}
	if e.Key != "" {
		return fmt.Sprintf("%s: bucket %q: %s", ErrShape.Error(), e.Key, e.Msg)
	}
	return fmt.Sprintf("%s: %s", ErrShape.Error(), e.Msg)
}

func (e *ShapeError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrShape, e.Err}
	}
	return []error{ErrShape}
}

// EntityValidationError reports one entity that fails the schema.
// Bucket and Index locate the element in the input; they are set by Format
// and left zero by ValidateEntity.
type EntityValidationError struct {
	Bucket string
	Index  int
	Field  string // Empty when the element as a whole is wrong
	Reason string
}

func (e *EntityValidationError) Error() string {
	if e == nil {
		return ""
	}
	loc := ""
	if e.Bucket != "" {
		loc = fmt.Sprintf("bucket %q index %d: ", e.Bucket, e.Index)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s%s: %s", ErrEntity.Error(), loc, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s%s", ErrEntity.Error(), loc, e.Reason)
}

func (e *EntityValidationError) Unwrap() error { return ErrEntity }

// DanglingReferenceError reports an entity whose parent is absent.
type DanglingReferenceError struct {
	ID       int64 // The referencing entity
	ParentID int64 // The missing parent
}

func (e *DanglingReferenceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: entity %d references parent_id %d which does not exist",
		ErrDanglingReference.Error(), e.ID, e.ParentID)
}

func (e *DanglingReferenceError) Unwrap() error { return ErrDanglingReference }

// CycleError reports an entity that is its own ancestor.
type CycleError struct {
	ID int64 // First entity, in registration order, not reachable from a root
}

func (e *CycleError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: entity %d is not reachable from any root", ErrCycle.Error(), e.ID)
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// Kind classifies a Format failure for callers that map outcomes to a
// transport, e.g. HTTP status codes.
type Kind string

const (
	KindOK                Kind = ""
	KindMissingInput      Kind = "missing-input"
	KindShapeInvalid      Kind = "shape-invalid"
	KindEntityInvalid     Kind = "entity-invalid"
	KindDanglingReference Kind = "dangling-reference"
	KindCyclicReference   Kind = "cyclic-reference"
	KindInternal          Kind = "internal"
)

// Classify returns the Kind of err. A nil error is KindOK.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrMissingInput):
		return KindMissingInput
	case errors.Is(err, ErrShape):
		return KindShapeInvalid
	case errors.Is(err, ErrEntity):
		return KindEntityInvalid
	case errors.Is(err, ErrDanglingReference):
		return KindDanglingReference
	case errors.Is(err, ErrCycle):
		return KindCyclicReference
	default:
		return KindInternal
	}
}
