package errors

import (
	"fmt"
	"testing"

	pkgErrors "github.com/pkg/errors"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindNotFound, "NotFoundError"},
		{KindSchemaValidation, "SchemaValidationError"},
		{KindMissingInput, "MissingInputError"},
		{KindMalformedInput, "MalformedInputError"},
		{KindUnknown, "UnknownError"},
		{Kind(99), "UnknownError"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind.String() = %v, want %v", got, tt.want)
		}
	}
}

func TestIs(t *testing.T) {
	base := Newf(KindNotFound, "no dataset %q", "LB")
	tests := []struct {
		name string
		err  error
		kind Kind
		want bool
	}{
		{"direct", base, KindNotFound, true},
		{"direct, other kind", base, KindMissingInput, false},
		{"wrapped", fmt.Errorf("batch: %w", base), KindNotFound, true},
		{"pkg/errors wrapped", pkgErrors.Wrap(base, "batch"), KindNotFound, true},
		{"plain error", fmt.Errorf("boom"), KindNotFound, false},
		{"nil", nil, KindNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.kind); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	err := Newf(KindMalformedInput, "bad document")
	if want := "MalformedInputError: bad document"; err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}
