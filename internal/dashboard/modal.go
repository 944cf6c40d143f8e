package dashboard

import "github.com/jwalitptl/patient-api/internal/model"

type ModalMode int

const (
	ModalClosed ModalMode = iota
	ModalCreate
	ModalEdit
	ModalDelete
)

const (
	TitleCreate = "Add New Patient"
	TitleEdit   = "Edit Patient"
	TitleDelete = "Confirm Deletion"
)

// Modal is the overlay used for the create, edit and delete flows. Patient is
// set for edit and delete.
type Modal struct {
	Mode    ModalMode
	Patient *model.Patient
}

func (m Modal) Open() bool {
	return m.Mode != ModalClosed
}

func (m Modal) Title() string {
	switch m.Mode {
	case ModalCreate:
		return TitleCreate
	case ModalEdit:
		return TitleEdit
	case ModalDelete:
		return TitleDelete
	default:
		return ""
	}
}

// FormInput is what the form starts with: an empty record with status
// Inquiry for create, the patient's current values for edit.
func (m Modal) FormInput() model.PatientInput {
	if m.Mode == ModalEdit && m.Patient != nil {
		return model.InputFromPatient(m.Patient)
	}
	return model.PatientInput{Status: model.StatusInquiry}
}
