package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/patient-api/internal/dashboard"
	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/view"
	"github.com/jwalitptl/patient-api/pkg/validator"
)

const browseHelp = `Commands:
  /<text>      search by name (empty clears)
  f <status>   filter by status (All, Inquiry, Onboarding, Active, Churned)
  a            add a patient
  e <n>        edit row n
  d <n>        delete row n
  r            refresh
  x            dismiss notification
  q            quit`

// syncWriter serialises renders triggered by timers with prompt output.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive patient dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return browse(cmd.Context(), a.client, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func browse(ctx context.Context, gw dashboard.Gateway, in io.Reader, w io.Writer) error {
	out := &syncWriter{w: w}
	render := func(s dashboard.Snapshot) {
		if s.Modal.Open() {
			return
		}
		var buf strings.Builder
		buf.WriteString("\n")
		_ = view.Dashboard(&buf, s)
		fmt.Fprint(out, buf.String())
	}

	d := dashboard.New(ctx, gw, dashboard.Options{OnChange: func(s dashboard.Snapshot) {
		if !s.Loading {
			render(s)
		}
	}})
	defer d.Close()

	search := dashboard.NewDebouncer(dashboard.DefaultSearchDelay)
	defer search.Stop()

	fmt.Fprintln(out, browseHelp)
	_ = d.Refresh(ctx)

	lines := bufio.NewScanner(in)
	v := validator.New()
	for lines.Scan() {
		line := strings.TrimSpace(lines.Text())
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch {
		case strings.HasPrefix(line, "/"):
			term := strings.TrimPrefix(line, "/")
			if term == "" {
				search.Stop()
				d.SetSearch("")
				continue
			}
			search.Trigger(func() { d.SetSearch(term) })
		case cmd == "f":
			d.SetStatus(arg)
		case cmd == "a":
			d.OpenCreate()
			submitForm(ctx, d, v, lines, out)
		case cmd == "e":
			p, ok := pick(d, arg, out)
			if !ok {
				continue
			}
			d.OpenEdit(p)
			submitForm(ctx, d, v, lines, out)
		case cmd == "d":
			p, ok := pick(d, arg, out)
			if !ok {
				continue
			}
			d.OpenDelete(p)
			view.DeleteConfirmation(out, d.Snapshot().Modal)
			fmt.Fprint(out, "Delete? [y/N]: ")
			if lines.Scan() && isYes(lines.Text()) {
				_ = d.ConfirmDelete(ctx)
			} else {
				d.CloseModal()
			}
		case cmd == "r":
			_ = d.Refresh(ctx)
		case cmd == "x":
			d.DismissToast()
		case cmd == "q":
			return nil
		case line == "":
		default:
			fmt.Fprintln(out, browseHelp)
		}
	}
	return lines.Err()
}

// submitForm runs the form for the open modal until it is saved or the user
// gives up. A failed save keeps the modal open and asks again.
func submitForm(ctx context.Context, d *dashboard.Dashboard, v *validator.Validator, lines *bufio.Scanner, out io.Writer) {
	for {
		modal := d.Snapshot().Modal
		view.ModalHeader(out, modal)

		in, err := view.NewForm(&scannerReader{s: lines}, out).Fill(modal.FormInput())
		if err != nil {
			d.CloseModal()
			return
		}

		if violations := v.Patient(in); len(violations) > 0 {
			view.FormErrors(out, violations)
		} else if _, err := d.Submit(ctx, in); err == nil {
			return
		} else if t := d.Snapshot().Toast; t != nil {
			view.ToastLine(out, t)
		}

		fmt.Fprint(out, "Try again? [y/N]: ")
		if !lines.Scan() || !isYes(lines.Text()) {
			d.CloseModal()
			return
		}
	}
}

func pick(d *dashboard.Dashboard, arg string, out io.Writer) (*model.Patient, bool) {
	patients := d.Snapshot().Patients
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(patients) {
		fmt.Fprintf(out, "Pick a row between 1 and %d\n", len(patients))
		return nil, false
	}
	return patients[n-1], true
}

func isYes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}

// scannerReader lets the form share the browse loop's scanner so buffered
// input is not lost between prompts.
type scannerReader struct {
	s   *bufio.Scanner
	buf []byte
}

func (r *scannerReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		if !r.s.Scan() {
			if err := r.s.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		r.buf = append(r.s.Bytes(), '\n')
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
