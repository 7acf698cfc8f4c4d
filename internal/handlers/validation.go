package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storerate/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const passwordSpecials = "!@#$%^&*"

// Validator wraps go-playground/validator with the API's custom rules and
// reports failures as apperr field errors keyed by JSON name.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with the strongpassword and alphaspace
// rules registered.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, r := range s {
			if !(r == ' ' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
				return false
			}
		}
		return s != ""
	})
	return &Validator{validate: v}
}

// isStrongPassword requires one upper-case letter and one of !@#$%^&*.
func isStrongPassword(s string) bool {
	var upper, special bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && special
}

// Struct validates s and converts failures to a Validation error.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(err)
	}
	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, apperr.FieldError{Field: e.Field(), Message: fieldMessage(e)})
	}
	return apperr.Validation("Validation failed", fields...)
}

func fieldMessage(e validator.FieldError) string {
	field := e.Field()
	isString := e.Kind() == reflect.String
	switch tag := e.Tag(); {
	case tag == "required":
		return fmt.Sprintf("%s is required", field)
	case tag == "email":
		return "Must be a valid email address"
	case tag == "strongpassword":
		return "Password must contain at least one uppercase letter and one special character (!@#$%^&*)"
	case tag == "alphaspace":
		return "Name can only contain letters and spaces"
	case tag == "eqfield":
		return "Passwords do not match"
	case tag == "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", "))
	case strings.HasPrefix(tag, "uuid"):
		return fmt.Sprintf("%s must be a valid UUID", field)
	case tag == "min" && isString:
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case tag == "max" && isString:
		return fmt.Sprintf("%s must not exceed %s characters", field, e.Param())
	case tag == "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case tag == "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// bindBody parses the JSON body into dst, normalizes it and validates it.
func (v *Validator) bindBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	return v.Struct(dst)
}

// bindQuery parses the query string into dst and validates it.
func (v *Validator) bindQuery(c *fiber.Ctx, dst interface{}) error {
	if err := c.QueryParser(dst); err != nil {
		return apperr.Validation("Invalid query parameters")
	}
	return v.Struct(dst)
}

type normalizer interface {
	normalize()
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func trimPtr(p *string, fn func(string) string) {
	if p != nil {
		*p = fn(*p)
	}
}
