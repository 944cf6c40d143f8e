package validator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
	"github.com/jwalitptl/patient-api/internal/model"
)

var fixedNow = time.Date(2024, time.June, 15, 18, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func validInput() *model.PatientInput {
	return &model.PatientInput{
		FirstName: "Jane",
		LastName:  "Doe",
		DOB:       "1990-01-01",
		Status:    model.StatusActive,
		Address: model.Address{
			Street: "1 Main St",
			City:   "Springfield",
			State:  "IL",
			Zip:    "62704",
		},
	}
}

func TestPatient_Valid(t *testing.T) {
	v := newTestValidator()

	in := validInput()
	in.MiddleName = "Anne Marie"
	in.Address.Street = "221B Baker St., Apt #4-A/2"
	in.Address.City = "St. John's"
	in.Address.State = "New-York"

	assert.Empty(t, v.Patient(in))
	assert.NoError(t, v.Patient(in).Err())
}

func TestPatient_Rules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *model.PatientInput)
		field   string
		message string
	}{
		{"first name missing", func(in *model.PatientInput) { in.FirstName = "" }, "firstName", "First name is required"},
		{"first name blank", func(in *model.PatientInput) { in.FirstName = "   " }, "firstName", "First name is required"},
		{"first name digits", func(in *model.PatientInput) { in.FirstName = "J4ne" }, "firstName", "First name must contain only letters and spaces"},
		{"middle name invalid", func(in *model.PatientInput) { in.MiddleName = "A." }, "middleName", "Middle name must contain only letters and spaces"},
		{"last name missing", func(in *model.PatientInput) { in.LastName = "" }, "lastName", "Last name is required"},
		{"last name symbols", func(in *model.PatientInput) { in.LastName = "O'Neil" }, "lastName", "Last name must contain only letters and spaces"},
		{"street missing", func(in *model.PatientInput) { in.Address.Street = "" }, "address.street", "Street address is required"},
		{"street invalid", func(in *model.PatientInput) { in.Address.Street = "1 Main St!" }, "address.street", "Street address contains invalid characters"},
		{"city missing", func(in *model.PatientInput) { in.Address.City = " " }, "address.city", "City is required"},
		{"city invalid", func(in *model.PatientInput) { in.Address.City = "Springfield 2" }, "address.city", "City contains invalid characters"},
		{"state missing", func(in *model.PatientInput) { in.Address.State = "" }, "address.state", "State is required"},
		{"state invalid", func(in *model.PatientInput) { in.Address.State = "I/L" }, "address.state", "State contains invalid characters"},
		{"zip missing", func(in *model.PatientInput) { in.Address.Zip = "" }, "address.zip", "Zip code is required"},
		{"zip short", func(in *model.PatientInput) { in.Address.Zip = "123" }, "address.zip", "Zip code must be exactly 5 digits"},
		{"zip letters", func(in *model.PatientInput) { in.Address.Zip = "6270a" }, "address.zip", "Zip code must be exactly 5 digits"},
		{"dob missing", func(in *model.PatientInput) { in.DOB = "" }, "dob", "Date of birth is required"},
		{"dob garbage", func(in *model.PatientInput) { in.DOB = "not-a-date" }, "dob", "Date of birth must be a valid date"},
		{"dob tomorrow", func(in *model.PatientInput) { in.DOB = "2024-06-16" }, "dob", "Date of birth cannot be in the future"},
		{"dob too old", func(in *model.PatientInput) { in.DOB = "1874-06-14" }, "dob", "Date of birth cannot be more than 150 years in the past"},
		{"status missing", func(in *model.PatientInput) { in.Status = "" }, "status", "Status is required"},
		{"status unknown", func(in *model.PatientInput) { in.Status = "Paused" }, "status", "Status must be one of: Inquiry, Onboarding, Active, Churned"},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)

			violations := v.Patient(in)
			require.Len(t, violations, 1)
			assert.Equal(t, tt.field, violations[0].Field)
			assert.Equal(t, tt.message, violations[0].Message)
		})
	}
}

func TestPatient_DateBoundaries(t *testing.T) {
	v := newTestValidator()

	for _, dob := range []string{"2024-06-15", "1874-06-15", "2024-06-15T23:00:00Z"} {
		in := validInput()
		in.DOB = dob
		assert.Empty(t, v.Patient(in), dob)
	}
}

func TestPatient_CollectsEveryViolation(t *testing.T) {
	v := newTestValidator()

	violations := v.Patient(&model.PatientInput{Address: model.Address{Zip: "123"}})

	assert.Equal(t, []string{
		"First name is required",
		"Last name is required",
		"Date of birth is required",
		"Status is required",
		"Street address is required",
		"City is required",
		"State is required",
		"Zip code must be exactly 5 digits",
	}, violations.Messages())

	byField := violations.ByField()
	assert.Equal(t, "Zip code must be exactly 5 digits", byField["address.zip"])
	assert.Len(t, byField, 8)

	err := violations.Err()
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestPatient_Nil(t *testing.T) {
	violations := newTestValidator().Patient(nil)
	require.Len(t, violations, 1)
	assert.Equal(t, "Patient data is required", violations[0].Message)
}

func TestAllowsPartial(t *testing.T) {
	tests := []struct {
		field string
		value string
		want  bool
	}{
		{"firstName", "", true},
		{"firstName", "Ja ne", true},
		{"firstName", "Jane1", false},
		{"lastName", "O'", false},
		{"address.zip", "", true},
		{"address.zip", "6270", true},
		{"address.zip", "62704", true},
		{"address.zip", "627041", false},
		{"address.zip", "62a", false},
		{"address.street", "12 Elm St., #3", true},
		{"address.street", "12 Elm St!", false},
		{"address.city", "St. Paul", true},
		{"address.state", "N4", false},
		{"dob", "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.field+"/"+strings.ReplaceAll(tt.value, " ", "_"), func(t *testing.T) {
			assert.Equal(t, tt.want, AllowsPartial(tt.field, tt.value))
		})
	}
}
