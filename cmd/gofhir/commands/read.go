package commands

import (
	"github.com/UB-BiomedicalInformatics/gofhir/pkg/fhir"
	"github.com/spf13/cobra"
)

// NewReadCommand creates the read command.
func NewReadCommand() *cobra.Command {
	var summary string

	cmd := &cobra.Command{
		Use:   "read LOCATION",
		Short: "Read a single resource",
		Long: `Read a resource by relative location, e.g. Patient/example.

Version-qualified locations work too: Patient/example/_history/2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			doc, err := client.Read(cmd.Context(), args[0], fhir.SummaryType(summary))
			if err != nil {
				return err
			}

			return renderDocument(doc)
		},
	}

	cmd.Flags().StringVar(&summary, "summary", "", "summary type (true, text, data, count, false)")

	return cmd
}
