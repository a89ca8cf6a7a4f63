package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/kbukum/corebundle/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldName)
		// urlpath: a local absolute path such as "/contao/login".
		_ = validate.RegisterValidation("urlpath", func(fl validator.FieldLevel) bool {
			p := fl.Field().String()
			return p == "" || (strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//"))
		})
	})
	return validate
}

// squashed names embedded structs whose fields sit at the parent level.
const squashed = "~"

func fieldName(fld reflect.StructField) string {
	if fld.Anonymous {
		return squashed
	}
	for _, tag := range []string{"mapstructure", "form", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return toSnakeCase(fld.Name)
}

// Struct validates s by its `validate` tags. Failures are an INVALID_INPUT
// AppError listing every field under Details["fields"].
func Struct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation("validation failed").WithCause(err)
	}

	f := NewForm()
	for _, e := range verrs {
		f.AddError(path(e.Namespace()), message(e))
	}
	return f.Err()
}

// path drops the root type and squashed segments from a namespace:
// "Config.~.logging.level" becomes "logging.level".
func path(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	parts := strings.Split(rest, ".")
	out := parts[:0]
	for _, p := range parts {
		if p != "" && p != squashed {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "gte":
		return "must be " + e.Param() + " or more"
	case "lte":
		return "must be " + e.Param() + " or less"
	case "oneof":
		return "must be one of: " + e.Param()
	case "url":
		return "must be a valid URL"
	case "hostname_port":
		return "must be host:port"
	case "urlpath":
		return "must be a local path starting with /"
	case "nefield":
		return "must differ from " + e.Param()
	default:
		return "is invalid (" + e.Tag() + ")"
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
