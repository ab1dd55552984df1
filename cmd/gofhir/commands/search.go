package commands

import (
	"errors"
	"io"

	"github.com/UB-BiomedicalInformatics/gofhir/pkg/fhir"
	"github.com/spf13/cobra"
)

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	var (
		includes []string
		count    int
		summary  string
		pages    int
	)

	cmd := &cobra.Command{
		Use:   "search [TYPE] [CRITERIA...]",
		Short: "Search resources",
		Long: `Search resources of one type, or across all types when TYPE is omitted.

Criteria are raw key=value search parameters, e.g.:

  gofhir search Patient name=Peter address-postalcode=3999
  gofhir search Observation code=http://loinc.org|8867-4 --count 20
  gofhir search --pages 0 Patient name=Peter   # follow all next links`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			resourceType, criteria := splitSearchArgs(args)

			opts := fhir.SearchOptions{
				Criteria: criteria,
				Include:  includes,
				Count:    count,
				Summary:  fhir.SummaryType(summary),
			}

			bundle, err := client.Search(cmd.Context(), resourceType, opts)
			if err != nil {
				return err
			}

			iterator := fhir.NewPages(client, bundle)

			for page := 1; pages <= 0 || page <= pages; page++ {
				bundle, err := iterator.Next(cmd.Context())
				if errors.Is(err, io.EOF) {
					break
				}

				if err != nil {
					return err
				}

				err = renderDocument(bundle)
				if err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&includes, "include", nil, "include path, repeatable (e.g. MedicationRequest.medication)")
	cmd.Flags().IntVar(&count, "count", 0, "page size (_count)")
	cmd.Flags().StringVar(&summary, "summary", "", "summary type (true, text, data, count, false)")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to fetch (0 = all)")

	return cmd
}

// splitSearchArgs separates the optional leading resource type from the
// criteria. An argument containing "=" is a criterium, so a missing type
// simply means the first argument already carries one.
func splitSearchArgs(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}

	if hasCriteriaShape(args[0]) {
		return "", args
	}

	return args[0], args[1:]
}

func hasCriteriaShape(arg string) bool {
	for _, r := range arg {
		if r == '=' {
			return true
		}
	}

	return false
}
