// ABOUTME: Shared go-playground/validator instance with console-specific rules
// ABOUTME: Formats validation failures into short, actionable messages

package validate

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	instance *validator.Validate
	once     sync.Once
	hooks    []func(*validator.Validate)
	hooksMu  sync.Mutex
)

// Register adds a hook that installs custom validations or struct-level rules.
// Hooks must be registered from package init functions, before the first Struct call.
func Register(hook func(*validator.Validate)) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	hooks = append(hooks, hook)
}

// Validator returns the process-wide validator.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		hooksMu.Lock()
		for _, h := range hooks {
			h(v)
		}
		hooksMu.Unlock()
		instance = v
	})
	return instance
}

// Struct validates s and returns a readable error listing every failed field.
func Struct(s any) error {
	if err := Validator().Struct(s); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// ValidationError lists field problems found before a request was sent.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			messages = append(messages, formatSingleValidationError(e))
		}
		return &ValidationError{Problems: messages}
	}
	return err
}

func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, strings.Replace(e.Param(), " ", " is ", 1))
	case "required_unless":
		return fmt.Sprintf("%s is required unless %s", field, strings.Replace(e.Param(), " ", " is ", 1))
	case "unlock":
		return fmt.Sprintf("%s is required for the %s unlock preset", field, e.Param())
	case "ne":
		return fmt.Sprintf("%s must not be %s", field, e.Param())
	case "hexadecimal":
		return fmt.Sprintf("%s must be hexadecimal", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "latitude", "longitude":
		return fmt.Sprintf("%s must be a valid %s", field, e.Tag())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}
