package commands

import (
	"github.com/spf13/cobra"
)

// NewGraphQLCommand creates the graphql command.
func NewGraphQLCommand() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "graphql QUERY",
		Short: "Execute a GraphQL query",
		Long: `Execute a GraphQL query against the server, or against one resource:

  gofhir graphql '{Patient(id:"example"){name{given,family}}}'
  gofhir graphql '{name{given,family}}' --location Patient/example`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			doc, err := client.GraphQL(cmd.Context(), location, args[0])
			if err != nil {
				return err
			}

			return renderDocument(doc)
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "resource location to scope the query to")

	return cmd
}
