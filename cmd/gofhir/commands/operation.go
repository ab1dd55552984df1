package commands

import (
	"fmt"

	"github.com/UB-BiomedicalInformatics/gofhir/pkg/fhir"
	"github.com/spf13/cobra"
)

// NewOperationCommand creates the operation command.
func NewOperationCommand() *cobra.Command {
	var (
		resourceType string
		id           string
		params       []string
	)

	cmd := &cobra.Command{
		Use:   "operation NAME",
		Short: "Invoke a named server-side operation",
		Long: `Invoke a $-prefixed operation at system, type, or instance level:

  gofhir operation everything --type Patient --id example
  gofhir operation expand --type ValueSet --param url=http://hl7.org/fhir/ValueSet/example`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parameters, err := fhir.ParseCriteria(params)
			if err != nil {
				return fmt.Errorf("invalid --param: %w", err)
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			doc, err := client.Operation(cmd.Context(), fhir.OperationRequest{
				ResourceType: resourceType,
				ID:           id,
				Name:         args[0],
				Parameters:   parameters,
			})
			if err != nil {
				return err
			}

			return renderDocument(doc)
		},
	}

	cmd.Flags().StringVar(&resourceType, "type", "", "resource type scope")
	cmd.Flags().StringVar(&id, "id", "", "resource id scope (requires --type)")
	cmd.Flags().StringArrayVar(&params, "param", nil, "operation parameter as name=value, repeatable")

	return cmd
}
