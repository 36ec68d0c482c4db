// Package schema declares the accepted arguments of every tool, decodes raw
// tool arguments into them and rejects anything that violates the declared
// shape before a handler runs.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

// FieldError is one violated constraint, addressed by JSON path
// (for example program.days[0].blocks[1].order_index).
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	if f.Field == "" {
		return f.Message
	}
	return f.Field + " " + f.Message
}

// ValidationError reports arguments that do not match a tool's schema.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "invalid arguments: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func invalid(fields ...FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// ruleChecker is implemented by argument types with cross-field constraints
// that struct tags cannot express.
type ruleChecker interface {
	rules() []FieldError
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Decode unmarshals raw tool arguments into dst, rejecting unknown fields.
// Absent arguments decode as an empty object.
func Decode(raw []byte, dst any) error {
	if spotr.IsNull(raw) {
		raw = []byte("{}")
	}
	if err := spotr.DecodeStrict(raw, dst); err != nil {
		var decErr *spotr.DecodeError
		if errors.As(err, &decErr) {
			return invalid(FieldError{Field: decErr.Field, Message: decErr.Message})
		}
		return invalid(FieldError{Message: err.Error()})
	}
	return nil
}

// Validate checks v against its struct tags and cross-field rules.
func Validate(v any) error {
	var fields []FieldError
	if err := validate.Struct(v); err != nil {
		var vErrs validator.ValidationErrors
		if !errors.As(err, &vErrs) {
			return invalid(FieldError{Message: err.Error()})
		}
		fields = append(fields, convert(vErrs, "")...)
	}
	if rc, ok := v.(ruleChecker); ok {
		fields = append(fields, rc.rules()...)
	}
	return invalid(fields...)
}

// Parse decodes raw into dst and validates the result.
func Parse(raw []byte, dst any) error {
	if err := Decode(raw, dst); err != nil {
		return err
	}
	return Validate(dst)
}

func convert(vErrs validator.ValidationErrors, prefix string) []FieldError {
	out := make([]FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		out = append(out, FieldError{
			Field:   joinPath(prefix, stripRoot(fe.Namespace())),
			Message: message(fe),
		})
	}
	return out
}

// stripRoot drops the Go type name validator puts at the head of a namespace.
func stripRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func joinPath(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	}
	return prefix + "." + field
}

func message(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		switch fe.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("must contain at least %s item(s)", param)
		case reflect.String:
			return fmt.Sprintf("must be at least %s character(s)", param)
		}
		return "must be at least " + param
	case "max":
		switch fe.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("must contain at most %s item(s)", param)
		case reflect.String:
			return fmt.Sprintf("must be at most %s character(s)", param)
		}
		return "must be at most " + param
	case "gt":
		return "must be greater than " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
