// Package envstruct populates configuration structs from the process
// environment.
package envstruct

import (
	"log/slog"
	"reflect"
	"strconv"

	"github.com/myrjola/whodunit/internal/errors"
)

var (
	// ErrEnvNotSet means a tagged field had neither an environment value nor
	// an envDefault fallback.
	ErrEnvNotSet = errors.NewSentinel("environment variable not set")
	// ErrInvalidValue means v is not a pointer to a struct or a tagged field
	// cannot be populated.
	ErrInvalidValue = errors.NewSentinel("cannot populate value")
)

// Populate fills the fields of the struct pointed to by v from the
// environment.
//
// Fields opt in with an `env:"NAME"` tag and may carry an `envDefault:"..."`
// fallback used when NAME is unset. String and bool fields are supported;
// untagged fields are left alone. lookupEnv has the signature of
// [os.LookupEnv] so tests can substitute their own environment.
func Populate(v any, lookupEnv func(string) (string, bool)) error {
	ref := reflect.ValueOf(v)
	if ref.Kind() != reflect.Ptr || ref.IsNil() || ref.Elem().Kind() != reflect.Struct {
		return errors.Wrap(ErrInvalidValue, "v must be a non-nil pointer to a struct")
	}
	target := ref.Elem()

	var errorList []error
	for i := 0; i < target.Type().NumField(); i++ {
		if err := populateField(target, i, lookupEnv); err != nil {
			errorList = append(errorList, err)
		}
	}
	return errors.Join(errorList...)
}

func populateField(target reflect.Value, i int, lookupEnv func(string) (string, bool)) error {
	field := target.Type().Field(i)
	envVarName, tagged := field.Tag.Lookup("env")
	if !tagged {
		return nil
	}
	value := target.Field(i)
	if !value.CanSet() {
		return errors.Wrap(ErrInvalidValue, "cannot set field", slog.String("fieldName", field.Name))
	}

	raw, ok := lookupEnv(envVarName)
	if !ok {
		if raw, ok = field.Tag.Lookup("envDefault"); !ok {
			return errors.Wrap(ErrEnvNotSet, "missing value", slog.String("envVarName", envVarName))
		}
	}

	switch value.Kind() {
	case reflect.String:
		value.SetString(raw)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.Wrap(ErrInvalidValue, "parse bool",
				slog.String("envVarName", envVarName), slog.String("value", raw))
		}
		value.SetBool(parsed)
	default:
		return errors.Wrap(ErrInvalidValue, "unsupported field type",
			slog.String("envVarName", envVarName),
			slog.String("fieldType", value.Kind().String()),
			slog.String("fieldName", field.Name))
	}
	return nil
}
