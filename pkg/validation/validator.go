package validation

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-ecommerce-api/pkg/apperror"
)

var initOnce sync.Once

// Init configures the global validator used by Gin's binding.
// - Uses JSON (or form) tag names in errors.
// - Registers the custom tags strongpwd, ngphone and slug.
func Init() {
	initOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
		_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
			return len(PasswordProblems(fl.Field().String())) == 0
		})
		_ = v.RegisterValidation("ngphone", func(fl validator.FieldLevel) bool {
			return ValidPhone(fl.Field().String())
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s != "" && Slugify(s) == s
		})
		v.RegisterAlias("pwd", "min=8")
	})
}

// PasswordProblems lists every strength rule pw breaks: at least 8 characters
// with an upper-case letter, a lower-case letter and a digit.
func PasswordProblems(pw string) []string {
	var out []string
	if len([]rune(pw)) < 8 {
		out = append(out, "must be at least 8 characters long")
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		out = append(out, "must contain at least one uppercase letter")
	}
	if !lower {
		out = append(out, "must contain at least one lowercase letter")
	}
	if !digit {
		out = append(out, "must contain at least one digit")
	}
	return out
}

// ToDetails converts binding errors into field -> messages.
func ToDetails(err error) map[string][]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	switch {
	case errors.As(err, &ute):
		field := ute.Field
		if field == "" {
			field = "body"
		}
		return map[string][]string{field: {"must be of type " + ute.Type.String()}}
	case errors.As(err, &se), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return map[string][]string{"body": {"invalid json"}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			field := fieldPath(fe)
			if fe.Tag() == "strongpwd" {
				out[field] = append(out[field], PasswordProblems(fe.Value().(string))...)
				continue
			}
			out[field] = append(out[field], formatFieldError(fe))
		}
		return out
	}

	return map[string][]string{"body": {"invalid payload"}}
}

// ToError wraps binding errors as a ValidationError for the response layer.
func ToError(err error) *apperror.Error {
	return apperror.Validation("invalid payload", ToDetails(err))
}

// fieldPath drops the top-level struct name: "addRequest.items[0].qty" -> "items[0].qty".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	kind := fe.Kind()

	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url", "http_url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "ngphone":
		return "must be a valid Nigerian phone number"
	case "slug":
		return "must be lowercase letters, digits and hyphens"
	case "oneof":
		return "must be one of [" + param + "]"
	case "min":
		if kind == reflect.String {
			return "must be at least " + param + " characters long"
		}
		if kind == reflect.Slice || kind == reflect.Map {
			return "must contain at least " + param + " items"
		}
		return "must be greater than or equal to " + param
	case "max":
		if kind == reflect.String {
			return "must be at most " + param + " characters long"
		}
		if kind == reflect.Slice || kind == reflect.Map {
			return "must contain at most " + param + " items"
		}
		return "must be less than or equal to " + param
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param
	case "gtefield":
		return "must be greater than or equal to " + param
	case "eqfield":
		return "must match " + param
	case "len":
		return "must be exactly " + param + " characters long"
	case "dive":
		return "contains an invalid item"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
