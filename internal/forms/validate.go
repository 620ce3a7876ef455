package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared across requests; validator.Validate is safe for
// concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON wire name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// MissingFieldError reports the first mandatory field absent from a
// submission, in the record's declared field order.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Missing required field: %s", e.Field)
}

// Validate checks a submission record's mandatory fields. Absent, empty, and
// whitespace-only-is-not-special: any empty string is missing. The first
// failing field (in struct declaration order) is returned as a
// *MissingFieldError; all other validator failures are returned as-is.
func Validate(record interface{}) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &MissingFieldError{Field: verrs[0].Field()}
	}
	return err
}
