package view

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/pkg/validator"
)

// ErrCancelled is returned when input ends before the form is complete.
var ErrCancelled = errors.New("form cancelled")

type formField struct {
	path  string
	label string
	get   func(*model.PatientInput) *string
}

var formFields = []formField{
	{"firstName", "First name", func(in *model.PatientInput) *string { return &in.FirstName }},
	{"middleName", "Middle name", func(in *model.PatientInput) *string { return &in.MiddleName }},
	{"lastName", "Last name", func(in *model.PatientInput) *string { return &in.LastName }},
	{"dob", "Date of birth (YYYY-MM-DD)", func(in *model.PatientInput) *string { return &in.DOB }},
	{"address.street", "Street address", func(in *model.PatientInput) *string { return &in.Address.Street }},
	{"address.city", "City", func(in *model.PatientInput) *string { return &in.Address.City }},
	{"address.state", "State", func(in *model.PatientInput) *string { return &in.Address.State }},
	{"address.zip", "Zip code", func(in *model.PatientInput) *string { return &in.Address.Zip }},
}

// Form reads a patient record line by line, starting from initial. An empty
// line keeps the current value and "-" clears an optional one. Lines that can
// never become valid for their field are refused and asked again.
type Form struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewForm(in io.Reader, out io.Writer) *Form {
	return &Form{in: bufio.NewScanner(in), out: out}
}

func (f *Form) Fill(initial model.PatientInput) (*model.PatientInput, error) {
	in := initial
	for _, field := range formFields {
		if err := f.ask(field, field.get(&in)); err != nil {
			return nil, err
		}
	}

	status, err := f.askStatus(in.Status)
	if err != nil {
		return nil, err
	}
	in.Status = status
	return &in, nil
}

func (f *Form) ask(field formField, value *string) error {
	for {
		fmt.Fprintf(f.out, "%s [%s]: ", field.label, *value)
		line, err := f.readLine()
		if err != nil {
			return err
		}
		switch {
		case line == "":
			return nil
		case line == "-" && field.path == "middleName":
			*value = ""
			return nil
		case !validator.AllowsPartial(field.path, line):
			fmt.Fprintf(f.out, "  %s contains characters that are not allowed\n", field.label)
			continue
		}
		*value = line
		return nil
	}
}

func (f *Form) askStatus(current model.Status) (model.Status, error) {
	statuses := model.Statuses()
	for {
		fmt.Fprintf(f.out, "Status (%s) [%s]: ", joinStatuses(statuses), current)
		line, err := f.readLine()
		if err != nil {
			return "", err
		}
		if line == "" {
			return current, nil
		}
		for _, s := range statuses {
			if strings.EqualFold(line, string(s)) {
				return s, nil
			}
		}
		fmt.Fprintf(f.out, "  Status must be one of: %s\n", joinStatuses(statuses))
	}
}

func (f *Form) readLine() (string, error) {
	if !f.in.Scan() {
		if err := f.in.Err(); err != nil {
			return "", err
		}
		return "", ErrCancelled
	}
	return strings.TrimSpace(f.in.Text()), nil
}

func joinStatuses(statuses []model.Status) string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// FormErrors lists violations next to the field they belong to.
func FormErrors(w io.Writer, violations validator.Violations) {
	if len(violations) == 0 {
		return
	}
	byField := violations.ByField()
	fields := append([]formField(nil), formFields...)
	fields = append(fields, formField{path: "status", label: "Status"})
	for _, field := range fields {
		if msg, ok := byField[field.path]; ok {
			fmt.Fprintf(w, "  ✕ %s\n", msg)
			delete(byField, field.path)
		}
	}
	for _, v := range violations {
		if _, ok := byField[v.Field]; ok {
			fmt.Fprintf(w, "  ✕ %s\n", v.Message)
			delete(byField, v.Field)
		}
	}
}
