package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mark31d/OlympusAirDiary/internal/models"
	"github.com/mark31d/OlympusAirDiary/internal/views"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).IsValid()
	})
	v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return isISODate(fl.Field().String())
	})
	return v
}

// isISODate accepts a bare date or a full timestamp starting with one.
func isISODate(s string) bool {
	if _, err := time.Parse(views.DateLayout, views.DateKey(s)); err != nil {
		return false
	}
	if len(s) == len(views.DateLayout) {
		return true
	}
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return true
	}
	_, err := time.Parse("2006-01-02T15:04:05", s)
	return err == nil
}

// validateStruct validates s based on its validate tags.
func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// validateUpdate also rejects explicitly empty category and date, which
// omitempty lets through.
func validateUpdate(req *models.UpdateMemoryRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	if req.Category != nil && !req.Category.IsValid() {
		return fmt.Errorf("category must be one of: joy personal challenges")
	}
	if req.DateISO != nil && !isISODate(*req.DateISO) {
		return fmt.Errorf("dateISO must be an ISO date")
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "category":
		return fmt.Sprintf("%s must be one of: joy personal challenges", field)
	case "isodate":
		return fmt.Sprintf("%s must be an ISO date", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
