package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidObjectID = errors.New("invalid ObjectID format")

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Validator is safe for concurrent use; go-playground caches struct metadata
// internally so one instance is shared by every handler.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New()}
}

// ObjectID checks that id is a 24 character hex ObjectID. Hex digits are
// accepted in either case.
func (v *Validator) ObjectID(id string) error {
	if err := v.validate.Var(strings.ToLower(id), "required,mongodb"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidObjectID, id)
	}
	return nil
}

// Field validates a single value against a tag, reporting failures under name.
func (v *Validator) Field(name string, value any, tag string) error {
	if err := v.validate.Var(value, tag); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(name, validationErrs)
		}
		return err
	}
	return nil
}

func translate(name string, errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors
	for _, err := range errs {
		message := err.Error()
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", name)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", name)
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", name)
		}
		out = append(out, ValidationError{Field: name, Message: message})
	}
	return out
}
