// Package view renders dashboard state for a terminal. Renderers only write;
// they never change state.
package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jwalitptl/patient-api/internal/dashboard"
	"github.com/jwalitptl/patient-api/internal/model"
)

const (
	DateFormat = "01/02/2006"

	MsgNoPatients = "No patients found."
	MsgLoading    = "Loading Patients..."
	MsgNoAddress  = "No address information"
)

// StatusOption is one entry of the status filter.
type StatusOption struct {
	Value string
	Label string
}

func StatusOptions() []StatusOption {
	opts := []StatusOption{{Value: model.StatusAll, Label: "All Statuses"}}
	for _, s := range model.Statuses() {
		opts = append(opts, StatusOption{Value: string(s), Label: string(s)})
	}
	return opts
}

func FormatDate(d model.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateFormat)
}

func FormatAddress(a model.Address) string {
	if a == (model.Address{}) {
		return MsgNoAddress
	}
	return strings.Join([]string{a.Street, a.City, a.State, a.Zip}, ", ")
}

// Count renders the "Showing N patients" line.
func Count(w io.Writer, n int) {
	fmt.Fprintf(w, "Showing %d patients\n", n)
}

// Table renders patients as aligned columns, numbered so a row can be picked.
func Table(w io.Writer, patients []*model.Patient) error {
	if len(patients) == 0 {
		_, err := fmt.Fprintln(w, MsgNoPatients)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tDATE OF BIRTH\tSTATUS\tADDRESS")
	for i, p := range patients {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\t%s\n",
			i+1, p.FirstName, p.LastName, FormatDate(p.DOB), p.Status, FormatAddress(p.Address))
	}
	return tw.Flush()
}

// Detail renders one patient as label/value lines.
func Detail(w io.Writer, p *model.Patient) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", p.ID)
	fmt.Fprintf(tw, "Name\t%s\n", p.FullName())
	fmt.Fprintf(tw, "Date of birth\t%s\n", FormatDate(p.DOB))
	fmt.Fprintf(tw, "Status\t%s\n", p.Status)
	fmt.Fprintf(tw, "Address\t%s\n", FormatAddress(p.Address))
	return tw.Flush()
}

// Dashboard renders the header, the active query, the list and any toast.
func Dashboard(w io.Writer, s dashboard.Snapshot) error {
	fmt.Fprintln(w, "Patient Management")
	fmt.Fprintln(w, "Manage your patient records efficiently.")
	fmt.Fprintln(w)

	status := s.Filters.Status
	if status == "" {
		status = model.StatusAll
	}
	fmt.Fprintf(w, "Search: %q  Status: %s\n", s.Filters.SearchTerm, status)
	Count(w, len(s.Patients))

	if s.Loading {
		fmt.Fprintln(w, MsgLoading)
	} else if err := Table(w, s.Patients); err != nil {
		return err
	}

	if s.Toast != nil {
		fmt.Fprintln(w)
		ToastLine(w, s.Toast)
	}
	return nil
}
