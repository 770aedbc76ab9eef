// Package form binds and validates submitted forms and collects field errors for the views.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Keed0303/ecommerce-starter-app/internal/catalog"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/controller"
)

const (
	// MsgSelfParent is shown when a category is its own parent.
	MsgSelfParent = "A category cannot be its own parent."
	// MsgCyclicParent is shown when a category would move below its own descendant.
	MsgCyclicParent = "A category cannot have its descendant as a parent."
)

//nolint:gochecknoglobals
var validate = newValidator()

// Errors maps a form field name to its message.
type Errors map[string]string

// Has reports whether field has an error, for templates.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message of field, for templates.
func (e Errors) Get(field string) string {
	return e[field]
}

// Any reports whether there is at least one error.
func (e Errors) Any() bool {
	return len(e) > 0
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Bind parses the request body into dst and validates it.
// A body that can not be parsed is returned as error, validation failures as Errors.
func Bind(c *fiber.Ctx, dst any) (Errors, error) {
	if err := c.BodyParser(dst); err != nil {
		return nil, err
	}

	return Validate(dst), nil
}

// Validate runs the struct validation of v and returns the failed fields.
func Validate(v any) Errors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Errors{"": err.Error()}
	}

	out := make(Errors, len(ve))
	for _, fe := range ve {
		if _, exists := out[fe.Field()]; exists {
			continue
		}

		out[fe.Field()] = message(fe)
	}

	return out
}

// FromError converts a controller field error to Errors.
func FromError(err error) (Errors, bool) {
	fe, ok := controller.AsFieldError(err)
	if !ok {
		return nil, false
	}

	var msg string

	switch {
	case errors.Is(fe.Err, catalog.ErrSelfParent):
		msg = MsgSelfParent
	case errors.Is(fe.Err, catalog.ErrCyclicParent):
		msg = MsgCyclicParent
	case errors.Is(fe.Err, catalog.ErrParentNotFound):
		msg = "The selected parent does not exist."
	default:
		msg = label(fe.Field) + " " + fe.Err.Error() + "."
	}

	return Errors{fe.Field: msg}, true
}

func message(fe validator.FieldError) string {
	name := label(fe.Field())

	switch fe.Tag() {
	case "required":
		return name + " is required."
	case "email":
		return name + " must be a valid email address."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s may not be greater than %s characters.", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", name, fe.Param())
	case "eqfield":
		return name + " does not match."
	case "numeric", "number":
		return name + " must be a number."
	default:
		return name + " is invalid."
	}
}

// label turns a field name like category_id into "Category".
func label(field string) string {
	field = strings.TrimSuffix(field, "_id")
	field = strings.ReplaceAll(field, "_", " ")

	if field == "" {
		return "Value"
	}

	return strings.ToUpper(field[:1]) + field[1:]
}
