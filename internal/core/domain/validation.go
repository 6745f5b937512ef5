package domain

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// personNamePattern accepts ASCII letters, Latin-1 accented letters and whitespace.
var personNamePattern = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s]+$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance used by the domain. Field
// names in its errors are taken from the json tags.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
			return personNamePattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// messageTable maps field -> validation tag -> human message.
type messageTable map[string]map[string]string

// validateStruct runs the validator on s and converts failures into a
// *ValidationError using msgs. Only the first failure per field is kept.
func validateStruct(s any, msgs messageTable) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		if _, seen := fields[field]; seen {
			continue
		}
		fields[field] = msgs.lookup(fe)
	}
	return &ValidationError{Fields: fields}
}

func (t messageTable) lookup(fe validator.FieldError) string {
	if byTag, ok := t[fe.Field()]; ok {
		if msg, ok := byTag[fe.Tag()]; ok {
			return msg
		}
		if msg, ok := byTag["*"]; ok {
			return msg
		}
	}
	return fe.Field() + " failed validation (" + fe.Tag() + ")"
}
