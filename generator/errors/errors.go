// Package errors describes the error kinds shared by the shell generation
// pipeline so that callers can decide between aborting the run and skipping
// a single dataset.
package errors

import "fmt"

type Kind int

const (
	KindUnknown Kind = iota

	// KindNotFound covers a dataset name with no item-group definition and
	// item references that resolve to no item definition. Fatal for the
	// dataset, not for the batch.
	KindNotFound

	// KindSchemaValidation covers an assembled shell rejected by the
	// Dataset-JSON schema. Counted, not fatal for the batch.
	KindSchemaValidation

	// KindMissingInput covers required input files absent at startup.
	// Fatal before any processing begins.
	KindMissingInput

	// KindMalformedInput covers a Define.xml that is not well-formed or
	// lacks the expected ODM structure. Fatal for the whole run.
	KindMalformedInput
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFoundError"
	case KindSchemaValidation:
		return "SchemaValidationError"
	case KindMissingInput:
		return "MissingInputError"
	case KindMalformedInput:
		return "MalformedInputError"
	}
	return "UnknownError"
}

type Error struct {
	Kind Kind
	Err  error
}

func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
