package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-api/internal/dashboard"
	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/pkg/validator"
)

func samplePatient() *model.Patient {
	return &model.Patient{
		Base:      model.Base{ID: uuid.MustParse("3f1c2b9e-8d7a-4e6f-9a1b-2c3d4e5f6a7b")},
		FirstName: "Jane",
		LastName:  "Doe",
		DOB:       model.NewDate(1990, time.January, 1),
		Status:    model.StatusActive,
		Address:   model.Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62704"},
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, nil))
	assert.Equal(t, MsgNoPatients+"\n", buf.String())

	buf.Reset()
	require.NoError(t, Table(&buf, []*model.Patient{samplePatient()}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "DATE OF BIRTH")
	assert.Contains(t, lines[1], "Jane Doe")
	assert.Contains(t, lines[1], "01/01/1990")
	assert.Contains(t, lines[1], "1 Main St, Springfield, IL, 62704")
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, MsgNoAddress, FormatAddress(model.Address{}))
}

func TestStatusOptions(t *testing.T) {
	opts := StatusOptions()
	require.Len(t, opts, 5)
	assert.Equal(t, StatusOption{Value: "All", Label: "All Statuses"}, opts[0])
	assert.Equal(t, "Churned", opts[4].Value)
}

func TestDashboard(t *testing.T) {
	var buf bytes.Buffer
	err := Dashboard(&buf, dashboard.Snapshot{
		Patients: []*model.Patient{samplePatient(), samplePatient()},
		Filters:  model.PatientFilters{SearchTerm: "doe"},
		Toast:    &dashboard.Toast{Kind: dashboard.ToastSuccess, Message: dashboard.MsgCreated},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Showing 2 patients")
	assert.Contains(t, out, `Search: "doe"  Status: All`)
	assert.Contains(t, out, "✓ Patient created successfully!")

	buf.Reset()
	require.NoError(t, Dashboard(&buf, dashboard.Snapshot{Loading: true}))
	assert.Contains(t, buf.String(), MsgLoading)
	assert.NotContains(t, buf.String(), MsgNoPatients)
}

func TestDeleteConfirmation(t *testing.T) {
	var buf bytes.Buffer
	DeleteConfirmation(&buf, dashboard.Modal{Mode: dashboard.ModalDelete, Patient: samplePatient()})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, dashboard.TitleDelete+"\n"))
	assert.Contains(t, out, MsgConfirmDelete)
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, MsgCannotUndo)
}

func TestToastLine(t *testing.T) {
	var buf bytes.Buffer
	ToastLine(&buf, &dashboard.Toast{Kind: dashboard.ToastError, Message: "Failed to load patients. Please try again."})
	assert.Equal(t, "✕ Failed to load patients. Please try again.\n", buf.String())

	buf.Reset()
	ToastLine(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestForm_Fill(t *testing.T) {
	input := strings.Join([]string{
		"Jane",
		"",
		"D0e",
		"Doe",
		"1990-01-01",
		"1 Main St",
		"Springfield",
		"IL",
		"627045",
		"62704",
		"bogus",
		"active",
	}, "\n") + "\n"

	var out bytes.Buffer
	in, err := NewForm(strings.NewReader(input), &out).Fill(dashboard.Modal{Mode: dashboard.ModalCreate}.FormInput())
	require.NoError(t, err)

	assert.Equal(t, "Jane", in.FirstName)
	assert.Equal(t, "", in.MiddleName)
	assert.Equal(t, "Doe", in.LastName)
	assert.Equal(t, "62704", in.Address.Zip)
	assert.Equal(t, model.StatusActive, in.Status)
	assert.Contains(t, out.String(), "Last name contains characters that are not allowed")
	assert.Contains(t, out.String(), "Zip code contains characters that are not allowed")
	assert.Contains(t, out.String(), "Status must be one of: Inquiry, Onboarding, Active, Churned")
}

func TestForm_KeepsInitialValues(t *testing.T) {
	initial := model.InputFromPatient(samplePatient())
	initial.MiddleName = "Ann"

	in, err := NewForm(strings.NewReader(strings.Repeat("\n", 1)+"-\n"+strings.Repeat("\n", 7)), &bytes.Buffer{}).Fill(initial)
	require.NoError(t, err)
	assert.Equal(t, "", in.MiddleName)
	assert.Equal(t, "1990-01-01", in.DOB)
	assert.Equal(t, model.StatusActive, in.Status)
}

func TestForm_Cancelled(t *testing.T) {
	_, err := NewForm(strings.NewReader("Jane\n"), &bytes.Buffer{}).Fill(model.PatientInput{})
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestFormErrors(t *testing.T) {
	v := validator.New(validator.WithClock(func() time.Time {
		return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	}))
	in := model.InputFromPatient(samplePatient())
	in.Address.Zip = "123"
	in.FirstName = ""

	var buf bytes.Buffer
	FormErrors(&buf, v.Patient(&in))
	assert.Equal(t, "  ✕ First name is required\n  ✕ Zip code must be exactly 5 digits\n", buf.String())
}
