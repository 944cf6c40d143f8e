package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/jwalitptl/patient-api/internal/dashboard"
)

const (
	MsgConfirmDelete = "Are you sure you want to delete this patient?"
	MsgCannotUndo    = "This action cannot be undone."
)

var toastIcons = map[dashboard.ToastKind]string{
	dashboard.ToastSuccess: "✓",
	dashboard.ToastError:   "✕",
	dashboard.ToastWarning: "⚠",
	dashboard.ToastInfo:    "ℹ",
}

func ToastLine(w io.Writer, t *dashboard.Toast) {
	if t == nil {
		return
	}
	icon, ok := toastIcons[t.Kind]
	if !ok {
		icon = toastIcons[dashboard.ToastSuccess]
	}
	fmt.Fprintf(w, "%s %s\n", icon, t.Message)
}

// ModalHeader frames the modal title.
func ModalHeader(w io.Writer, m dashboard.Modal) {
	title := m.Title()
	if title == "" {
		return
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
}

// DeleteConfirmation renders the delete modal body. The patient name is
// included when known.
func DeleteConfirmation(w io.Writer, m dashboard.Modal) {
	ModalHeader(w, m)
	fmt.Fprintln(w, MsgConfirmDelete)
	if m.Patient != nil {
		fmt.Fprintf(w, "  %s\n", m.Patient.FullName())
	}
	fmt.Fprintln(w, MsgCannotUndo)
}
