package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/patient-api/internal/model"
)

var labels = map[string]string{
	"FirstName":  "First name",
	"MiddleName": "Middle name",
	"LastName":   "Last name",
	"Street":     "Street address",
	"City":       "City",
	"State":      "State",
	"Zip":        "Zip code",
	"DOB":        "Date of birth",
	"Status":     "Status",
}

var tagMessages = map[string]string{
	"not_blank":      "%s is required",
	"required":       "%s is required",
	"person_name":    "%s must contain only letters and spaces",
	"street_address": "%s contains invalid characters",
	"city_state":     "%s contains invalid characters",
	"zip5":           "%s must be exactly 5 digits",
	"calendar_date":  "%s must be a valid date",
	"not_future":     "%s cannot be in the future",
	"max_age":        "%s cannot be more than 150 years in the past",
}

func message(fe validator.FieldError) string {
	label, ok := labels[fe.StructField()]
	if !ok {
		label = fe.Field()
	}

	if fe.Tag() == "patient_status" {
		return fmt.Sprintf("%s must be one of: %s", label, statusList())
	}
	if format, ok := tagMessages[fe.Tag()]; ok {
		return fmt.Sprintf(format, label)
	}
	return fmt.Sprintf("%s is invalid", label)
}

func statusList() string {
	names := make([]string, 0, 4)
	for _, s := range model.Statuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
