package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/pkg/client"
)

// importFile is the layout of a bulk import document.
type importFile struct {
	Patients []model.PatientInput `yaml:"patients"`
}

type creator interface {
	CreatePatient(ctx context.Context, in *model.PatientInput) (*model.Patient, error)
}

type importResult struct {
	Created int
	Failed  int
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create every patient listed in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := importPatients(cmd.Context(), a.client, f, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d of %d patients failed to import", res.Failed, res.Created+res.Failed)
			}
			return nil
		},
	}
}

// importPatients creates each entry in order and keeps going past failures,
// reporting each one on out.
func importPatients(ctx context.Context, gw creator, r io.Reader, out io.Writer) (importResult, error) {
	doc, err := decodeImport(r)
	if err != nil {
		return importResult{}, err
	}

	var res importResult
	for i := range doc.Patients {
		in := doc.Patients[i]
		if in.Status == "" {
			in.Status = model.StatusInquiry
		}

		p, err := gw.CreatePatient(ctx, &in)
		if err != nil {
			res.Failed++
			fmt.Fprintf(out, "%d. %s %s: %s\n", i+1, in.FirstName, in.LastName, client.UserMessage(err))
			continue
		}
		res.Created++
		fmt.Fprintf(out, "%d. %s created (%s)\n", i+1, p.FullName(), p.ID)
	}

	fmt.Fprintf(out, "Imported %d of %d patients\n", res.Created, len(doc.Patients))
	return res, nil
}

// decodeImport accepts either a "patients:" mapping or a bare sequence.
func decodeImport(r io.Reader) (importFile, error) {
	var (
		doc  importFile
		node yaml.Node
	)
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return doc, nil
		}
		return doc, fmt.Errorf("failed to parse import file: %w", err)
	}

	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	var err error
	if root.Kind == yaml.SequenceNode {
		err = root.Decode(&doc.Patients)
	} else {
		err = root.Decode(&doc)
	}
	if err != nil {
		return doc, fmt.Errorf("failed to parse import file: %w", err)
	}
	return doc, nil
}
