package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/UB-BiomedicalInformatics/gofhir/pkg/fhir"
	"github.com/spf13/cobra"
)

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update FILE",
		Short: "Update a resource from a JSON file",
		Long: `PUT a resource read from a local JSON file. The resource must carry
resourceType and id fields; the target URL is derived from them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			var resource fhir.Document

			err = json.Unmarshal(data, &resource)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			doc, err := client.Update(cmd.Context(), resource)
			if err != nil {
				return err
			}

			return renderDocument(doc)
		},
	}
}
