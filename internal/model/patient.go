package model

type Status string

const (
	StatusInquiry    Status = "Inquiry"
	StatusOnboarding Status = "Onboarding"
	StatusActive     Status = "Active"
	StatusChurned    Status = "Churned"
)

// StatusAll is the list filter sentinel that disables status filtering.
const StatusAll = "All"

// Statuses returns the patient lifecycle states in display order.
func Statuses() []Status {
	return []Status{StatusInquiry, StatusOnboarding, StatusActive, StatusChurned}
}

func (s Status) Valid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Address is stored as four flat columns and reassembled on every read.
type Address struct {
	Street string `json:"street" yaml:"street" validate:"not_blank,street_address"`
	City   string `json:"city" yaml:"city" validate:"not_blank,city_state"`
	State  string `json:"state" yaml:"state" validate:"not_blank,city_state"`
	Zip    string `json:"zip" yaml:"zip" validate:"not_blank,zip5"`
}

type Patient struct {
	Base
	FirstName  string  `json:"firstName"`
	MiddleName string  `json:"middleName,omitempty"`
	LastName   string  `json:"lastName"`
	DOB        Date    `json:"dob"`
	Status     Status  `json:"status"`
	Address    Address `json:"address"`
}

// FullName joins the name parts that are present.
func (p *Patient) FullName() string {
	if p.MiddleName != "" {
		return p.FirstName + " " + p.MiddleName + " " + p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// PatientInput is the body accepted by create and update. DOB stays a string so an
// unparseable date is reported as a rule violation rather than a decode failure.
type PatientInput struct {
	FirstName  string  `json:"firstName" yaml:"firstName" validate:"not_blank,person_name"`
	MiddleName string  `json:"middleName,omitempty" yaml:"middleName,omitempty" validate:"omitempty,person_name"`
	LastName   string  `json:"lastName" yaml:"lastName" validate:"not_blank,person_name"`
	DOB        string  `json:"dob" yaml:"dob" validate:"not_blank,calendar_date,not_future,max_age"`
	Status     Status  `json:"status" yaml:"status" validate:"not_blank,patient_status"`
	Address    Address `json:"address" yaml:"address"`
}

// ToPatient builds the record to persist. dob must be the parsed form of in.DOB.
func (in *PatientInput) ToPatient(dob Date) *Patient {
	return &Patient{
		FirstName:  in.FirstName,
		MiddleName: in.MiddleName,
		LastName:   in.LastName,
		DOB:        dob,
		Status:     in.Status,
		Address:    in.Address,
	}
}

// InputFromPatient prefills an edit form from a stored record.
func InputFromPatient(p *Patient) PatientInput {
	return PatientInput{
		FirstName:  p.FirstName,
		MiddleName: p.MiddleName,
		LastName:   p.LastName,
		DOB:        p.DOB.String(),
		Status:     p.Status,
		Address:    p.Address,
	}
}
