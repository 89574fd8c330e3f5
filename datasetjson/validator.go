package datasetjson

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"

	"github.com/cdisc-tools/datasetjson-shells/datasetjson/specdata"
)

// SchemaAsset is the embedded Dataset-JSON schema used when the caller does
// not supply one.
const SchemaAsset = "dataset.schema.json"

// ValidationError carries the individual schema issues of a rejected shell.
type ValidationError struct {
	Errors []ValidationErrorDetail
}

type ValidationErrorDetail struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (err ValidationError) Error() string {
	return fmt.Sprintf("validation issues: %+v", err.Errors)
}

// Validator checks documents against the Dataset-JSON JSON Schema. The
// schema is compiled once; Validate is safe for concurrent use.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the embedded Dataset-JSON v1.1 schema.
func NewValidator() (*Validator, error) {
	return NewValidatorBytes(specdata.MustAsset(SchemaAsset))
}

// NewValidatorBytes compiles a caller-supplied schema document.
func NewValidatorBytes(schema []byte) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	if err != nil {
		return nil, errors.Wrap(err, "compiling Dataset-JSON schema")
	}
	return &Validator{schema: compiled}, nil
}

// Validate checks one encoded document. It returns a ValidationError
// listing every issue when the document does not conform.
func (v *Validator) Validate(doc []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return errors.Wrap(err, "running schema validation")
	}
	if result.Valid() {
		return nil
	}
	issues := make([]ValidationErrorDetail, 0, len(result.Errors()))
	for _, issue := range result.Errors() {
		issues = append(issues, ValidationErrorDetail{
			Path:    issue.Field(),
			Message: issue.Description(),
		})
	}
	return ValidationError{Errors: issues}
}
