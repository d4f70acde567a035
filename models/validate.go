package models

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// TagName is the struct tag holding validation rules. It matches gin's
// binding tag so request binding and the repository share one schema.
const TagName = "binding"

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

// RegisterValidations adds the menu-specific rules to v. Call it on gin's
// validator engine before serving.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := ParseCategory(fl.Field().String())
		return ok
	})
}

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	validatorOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.SetTagName(TagName)
		if err := RegisterValidations(validate); err != nil {
			panic(err)
		}
	})
	return validate
}

// Validate checks v against its binding rules.
func Validate(v any) error {
	return Validator().Struct(v)
}
