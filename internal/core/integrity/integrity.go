// Package integrity holds the errors the schema layer surfaces to callers and
// the boundary validator every entity passes through before it is persisted.
package integrity

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("duplicate record")
	ErrNotFound   = errors.New("record not found")
	ErrReference  = errors.New("referenced record missing")
)

// Enum is implemented by every closed choice type (plan type, status, ...).
type Enum interface {
	IsValid() bool
}

// ValidationError describes the first rule a record broke.
type ValidationError struct {
	Entity string
	Field  string
	Rule   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, e.Rule)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError for checks that struct tags cannot express.
func Invalid(entity, field, rule string) error {
	return &ValidationError{Entity: entity, Field: field, Rule: rule}
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report column names, not Go field names
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
			e, ok := fl.Field().Interface().(Enum)
			return ok && e.IsValid()
		})
	})
	return validate
}

// Check runs the `validate` tags of v and converts the first failure into a
// ValidationError.
func Check(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		return &ValidationError{Entity: entityName(v), Field: fe.Field(), Rule: rule}
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func entityName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
