package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jwalitptl/patient-api/internal/dashboard"
	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/view"
	"github.com/jwalitptl/patient-api/pkg/validator"
)

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("search")
			status, _ := cmd.Flags().GetString("status")

			patients, err := a.client.ListPatients(cmd.Context(), model.PatientFilters{SearchTerm: search, Status: status})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			view.Count(out, len(patients))
			return view.Table(out, patients)
		},
	}
	cmd.Flags().StringP("search", "s", "", "Match first or last name")
	cmd.Flags().String("status", model.StatusAll, "Filter by status (All, Inquiry, Onboarding, Active, Churned)")
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.client.GetPatient(cmd.Context(), id)
			if err != nil {
				return err
			}
			return view.Detail(cmd.OutOrStdout(), p)
		},
	}
}

func (a *app) createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a patient from prompts or a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			modal := dashboard.Modal{Mode: dashboard.ModalCreate}
			in, err := a.readInput(cmd, modal)
			if err != nil {
				return err
			}

			p, err := a.client.CreatePatient(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dashboard.MsgCreated)
			return view.Detail(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringP("file", "f", "", "YAML file with one patient")
	return cmd
}

func (a *app) updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			current, err := a.client.GetPatient(cmd.Context(), id)
			if err != nil {
				return err
			}

			in, err := a.readInput(cmd, dashboard.Modal{Mode: dashboard.ModalEdit, Patient: current})
			if err != nil {
				return err
			}

			p, err := a.client.UpdatePatient(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dashboard.MsgUpdated)
			return view.Detail(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringP("file", "f", "", "YAML file with the new values")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				current, err := a.client.GetPatient(cmd.Context(), id)
				if err != nil {
					return err
				}
				modal := dashboard.Modal{Mode: dashboard.ModalDelete, Patient: current}
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), modal) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if _, err := a.client.DeletePatient(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dashboard.MsgDeleted)
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// readInput loads the record from --file when given, otherwise prompts for
// it. Rule violations are printed per field before the error is returned.
func (a *app) readInput(cmd *cobra.Command, modal dashboard.Modal) (*model.PatientInput, error) {
	var (
		in  *model.PatientInput
		err error
	)
	out := cmd.OutOrStdout()

	if file, _ := cmd.Flags().GetString("file"); file != "" {
		in, err = readInputFile(file, modal.FormInput())
	} else {
		view.ModalHeader(out, modal)
		in, err = view.NewForm(cmd.InOrStdin(), out).Fill(modal.FormInput())
	}
	if err != nil {
		return nil, err
	}

	violations := validator.New().Patient(in)
	if len(violations) > 0 {
		view.FormErrors(out, violations)
		return nil, violations.Err()
	}
	return in, nil
}

func readInputFile(path string, base model.PatientInput) (*model.PatientInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	in := base
	if err := yaml.NewDecoder(f).Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &in, nil
}

func confirm(in io.Reader, out io.Writer, modal dashboard.Modal) bool {
	view.DeleteConfirmation(out, modal)
	fmt.Fprint(out, "Delete? [y/N]: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

var errInvalidID = errors.New("Patient ID must be a valid UUID")

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}
