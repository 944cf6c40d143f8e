package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/patient-api/pkg/client"
)

type app struct {
	client *client.Client
}

func main() {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "patientctl",
		Short:         "Manage patient records through the Patient Management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := client.LoadConfig()
			if err != nil {
				return err
			}
			if url, _ := cmd.Flags().GetString("api-url"); url != "" {
				cfg.APIURL = url
			}
			a.client, err = client.New(cfg)
			return err
		},
	}
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides PATIENTCTL_API_URL)")

	rootCmd.AddCommand(
		a.listCmd(),
		a.getCmd(),
		a.createCmd(),
		a.updateCmd(),
		a.deleteCmd(),
		a.importCmd(),
		a.browseCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", client.UserMessage(err))
		os.Exit(1)
	}
}
