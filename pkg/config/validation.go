package config

import (
	"reflect"

	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

// Validator can be implemented by configuration structs to perform
// custom validation after loading completes. The Validate method is
// called by [Loader.Load] after required-field checks pass.
//
// Validate should return a [*taskerr.Error] (typically with code
// [taskerr.CodeValidation]) describing the first problem found, or nil
// when the configuration is acceptable.
type Validator interface {
	Validate() error
}

// validate runs required-field checks and, if the config implements
// [Validator], its custom Validate method.
func validate(cfg any, rv reflect.Value) error {
	if err := validateRequired(rv, ""); err != nil {
		return err
	}

	if v, ok := cfg.(Validator); ok {
		if err := v.Validate(); err != nil {
			// Preserve structured errors from custom validators;
			// wrap anything else as a validation failure.
			if taskErr, ok := taskerr.AsError(err); ok {
				return taskErr
			}
			return taskerr.Wrap(err, taskerr.CodeValidation,
				"config: validation failed")
		}
	}

	return nil
}

// validateRequired recursively checks that all fields tagged
// `required:"true"` hold non-zero values. The path parameter carries
// the dotted field path for error messages (e.g. "Postgres.Host").
func validateRequired(rv reflect.Value, path string) error {
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rv.Field(i)
		sf := rt.Field(i)

		fieldPath := sf.Name
		if path != "" {
			fieldPath = path + "." + sf.Name
		}

		if field.Kind() == reflect.Struct && sf.Type != durationType {
			if err := validateRequired(field, fieldPath); err != nil {
				return err
			}
			continue
		}

		if sf.Tag.Get("required") != "true" {
			continue
		}

		if field.IsZero() {
			return taskerr.Newf(taskerr.CodeValidationRequired,
				"config: required field %q is not set", fieldPath)
		}
	}

	return nil
}
