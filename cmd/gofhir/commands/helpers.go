package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/UB-BiomedicalInformatics/gofhir/pkg/fhir"
	"github.com/UB-BiomedicalInformatics/gofhir/pkg/fhirclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"

	defaultJSONIndent = 2
)

// Common static errors used throughout the commands package.
var (
	ErrNoEndpointConfigured = errors.New("no endpoint configured (use --endpoint or 'gofhir endpoints add')")
	ErrEndpointNotFound     = errors.New("endpoint not found in configuration")
)

// createClient builds a fhir.Client from the --endpoint flag, falling back to
// the currently targeted endpoint from the config file.
func createClient(ctx context.Context) (fhir.Client, error) {
	endpoint := viper.GetString("endpoint")

	if endpoint == "" {
		config, err := loadConfig()
		if err == nil && config.Current != "" {
			endpoint = config.Endpoints[config.Current]
		}
	}

	if endpoint == "" {
		return nil, ErrNoEndpointConfigured
	}

	cfg := &fhir.Config{
		Endpoint: endpoint,
	}

	if viper.GetBool("verbose") {
		cfg.Debug = true
		cfg.Logger = &stderrLogger{}
	}

	client, err := fhirclient.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", endpoint, err)
	}

	return client, nil
}

// renderDocument writes a document to stdout in the configured output format.
func renderDocument(doc fhir.Document) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

		return encoder.Encode(doc)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(doc)
	default:
		if doc.IsBundle() {
			return renderBundleTable(doc)
		}

		return renderResourceTable(doc)
	}
}

// renderBundleTable prints one row per bundle entry.
func renderBundleTable(bundle fhir.Document) error {
	entries := bundle.Entries()
	if len(entries) == 0 {
		fmt.Println("No resources found")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Type", "ID", "Summary")

	for _, entry := range entries {
		table.Append(entry.ResourceType(), entry.ID(), summarizeResource(entry))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	if total, ok := bundle["total"].(float64); ok {
		fmt.Printf("\nShowing %d of %d total\n", len(entries), int(total))
	}

	return nil
}

// renderResourceTable prints the top-level scalar fields of one resource.
func renderResourceTable(doc fhir.Document) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")

	fields := make([]string, 0, len(doc))

	for field, value := range doc {
		switch value.(type) {
		case string, float64, bool:
			fields = append(fields, field)
		default:
			// nested structures are only visible in json/yaml output
		}
	}

	sort.Strings(fields)

	for _, field := range fields {
		table.Append(field, fmt.Sprintf("%v", doc[field]))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	return nil
}

// summarizeResource produces a short human-readable hint for a table row.
func summarizeResource(doc fhir.Document) string {
	for _, field := range []string{"name", "title", "description", "status"} {
		switch value := doc[field].(type) {
		case string:
			return value
		case []interface{}:
			// HumanName and friends: fall back to the raw text when present
			if len(value) > 0 {
				if name, ok := value[0].(map[string]interface{}); ok {
					if text, ok := name["text"].(string); ok {
						return text
					}
				}
			}
		}
	}

	return ""
}

// stderrLogger implements fhir.Logger for --verbose output.
type stderrLogger struct{}

func (l *stderrLogger) Debug(msg string, fields map[string]interface{}) { l.log("DEBUG", msg, fields) }
func (l *stderrLogger) Info(msg string, fields map[string]interface{})  { l.log("INFO", msg, fields) }
func (l *stderrLogger) Warn(msg string, fields map[string]interface{})  { l.log("WARN", msg, fields) }
func (l *stderrLogger) Error(msg string, fields map[string]interface{}) { l.log("ERROR", msg, fields) }

func (l *stderrLogger) log(level, msg string, fields map[string]interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s %v\n", level, msg, fields)
}
