// Package forms declares the HTML and JSON form schemas and validates them
// with go-playground/validator.
package forms

import (
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to its validation messages.
type Errors map[string][]string

// Add appends msg to field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Get returns the first message for field or "".
func (e Errors) Get(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Valid reports whether no field failed.
func (e Errors) Valid() bool {
	return len(e) == 0
}

type defaulter interface {
	applyDefaults()
	clearDefaults()
}

// defaultImages are the local placeholders stored by applyDefaults. They are
// the only relative paths the image rule accepts.
var defaultImages = []string{
	models.DefaultProfileImage,
	models.DefaultCafeImage,
	models.DefaultPlantImage,
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
			v := fl.Field().String()
			return slices.Contains(defaultImages, v) || validate.Var(v, "url") == nil
		})
	})
	return validate
}

// Validate checks every field of form, a pointer to one of the form structs,
// and returns all failures at once. On success the form's defaults are filled in.
func Validate(form any) Errors {
	errs := Errors{}
	if err := instance().Struct(form); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			errs.Add("form", err.Error())
			return errs
		}
		for _, fe := range verrs {
			errs.Add(fe.Field(), message(fe))
		}
		return errs
	}
	if d, ok := form.(defaulter); ok {
		d.applyDefaults()
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "email":
		return "Invalid email address."
	case "url", "imageurl":
		return "Invalid URL."
	case "oneof":
		return "Not a valid choice."
	default:
		return "Invalid value."
	}
}

// StripDefaults blanks fields that still hold a value filled in by Validate,
// so a re-rendered form shows what the user typed.
func StripDefaults(form any) {
	if d, ok := form.(defaulter); ok {
		d.clearDefaults()
	}
}

// Decode copies values into the string fields of dst, a pointer to a form
// struct, by their form tag. Values are trimmed unless the tag says notrim.
func Decode(values url.Values, dst any) {
	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, opts, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" || f.Type.Kind() != reflect.String {
			continue
		}
		val := values.Get(name)
		if opts != "notrim" {
			val = strings.TrimSpace(val)
		}
		v.Field(i).SetString(val)
	}
}
