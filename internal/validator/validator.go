package validator

import (
	"bandroom/internal/model"
	"bandroom/internal/schedule"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Custom validators
	v.RegisterValidation("day_key", validateDayKey)
	v.RegisterValidation("availability_status", validateAvailabilityStatus)

	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func validateDayKey(fl validator.FieldLevel) bool {
	_, err := schedule.ParseDayKey(fl.Field().String())
	return err == nil
}

func validateAvailabilityStatus(fl validator.FieldLevel) bool {
	return model.AvailabilityStatus(fl.Field().String()).Valid()
}
