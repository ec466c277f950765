package dto

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tutorlink/tutorlink-api/internal/models"
)

// RegisterValidations installs the domain formats used by booking and
// availability payloads: "dateonly" for YYYY-MM-DD dates, "clock" for
// zero-padded HH:MM times and "weekday" for 3-letter weekday keys.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("dateonly", validDateOnly); err != nil {
		return err
	}
	if err := v.RegisterValidation("clock", validClock); err != nil {
		return err
	}
	return v.RegisterValidation("weekday", validWeekday)
}

func validDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(models.DateLayout, fl.Field().String())
	return err == nil
}

func validClock(fl validator.FieldLevel) bool {
	_, err := models.ClockToMinutes(fl.Field().String())
	return err == nil
}

func validWeekday(fl validator.FieldLevel) bool {
	return models.ValidWeekday(fl.Field().String())
}
