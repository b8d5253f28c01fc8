package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with the domain tags registered
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("scenario", func(fl validator.FieldLevel) bool {
		return entities.Scenario(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		return entities.Difficulty(fl.Field().String()).IsValid()
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
