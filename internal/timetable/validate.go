package timetable

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, err := ParseTimeOfDay(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

// ValidateInput checks field level constraints of a session input and returns
// field name to message pairs. It does not compare start and end.
func ValidateInput(in SessionInput) map[string]string {
	return fieldErrors(validatorInstance().Struct(in))
}

// ValidateSettings checks reminder settings.
func ValidateSettings(settings ReminderSettings) map[string]string {
	return fieldErrors(validatorInstance().Struct(settings))
}

// ValidateSession checks an already parsed session, as supplied by a loader.
func ValidateSession(s Session) map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(s.ID) == "" {
		errs["id"] = "id is required"
	}
	if !s.Day.Valid() {
		errs["day"] = "day must be between 1 (Monday) and 6 (Saturday)"
	}
	if !s.Start.Valid() {
		errs["start"] = "start must be a time of day in HH:MM format"
	}
	if !s.End.Valid() {
		errs["end"] = "end must be a time of day in HH:MM format"
	}
	if strings.TrimSpace(s.Subject) == "" {
		errs["subject"] = "subject is required"
	}
	if s.Participants < 0 {
		errs["participants"] = "participants must not be negative"
	}
	if !s.Type.Valid() {
		errs["type"] = "type must be one of lecture, practical, tutorial, exam"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func fieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"input": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "day":
		return "day must be between 1 (Monday) and 6 (Saturday)"
	case "start", "end":
		if fe.Tag() == "required" {
			return fe.Field() + " is required"
		}
		return fe.Field() + " must be a time of day in HH:MM format"
	case "type":
		return "type must be one of lecture, practical, tutorial, exam"
	case "lead_minutes":
		return "lead_minutes must be one of 5, 10, 15, 30"
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	}
	return fe.Field() + " is invalid"
}
