package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/UB-BiomedicalInformatics/gofhir/internal/constants"
	"github.com/UB-BiomedicalInformatics/gofhir/pkg/fhirclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the persisted CLI configuration.
type Config struct {
	// Current names the endpoint used when --endpoint is not given.
	Current string `yaml:"current,omitempty"`
	// Endpoints maps a short name to a normalized endpoint URL.
	Endpoints map[string]string `yaml:"endpoints,omitempty"`
}

// NewEndpointsCommand creates the endpoints command group.
func NewEndpointsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "endpoints",
		Aliases: []string{"endpoint"},
		Short:   "Manage FHIR server endpoints",
		Long:    "Add, list, remove, and target FHIR server endpoints",
	}

	cmd.AddCommand(newEndpointsAddCommand())
	cmd.AddCommand(newEndpointsListCommand())
	cmd.AddCommand(newEndpointsRemoveCommand())
	cmd.AddCommand(newEndpointsTargetCommand())

	return cmd
}

func newEndpointsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME URL",
		Short: "Add a FHIR server endpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			endpoint := fhirclient.NormalizeEndpoint(args[1])

			config, err := loadConfig()
			if err != nil {
				return err
			}

			if config.Endpoints == nil {
				config.Endpoints = make(map[string]string)
			}

			if _, exists := config.Endpoints[name]; exists {
				return fmt.Errorf("endpoint %q already exists", name)
			}

			config.Endpoints[name] = endpoint

			// The first endpoint becomes the current target
			if config.Current == "" {
				config.Current = name
				fmt.Printf("Endpoint '%s' (%s) added and set as current target\n", name, endpoint)
			} else {
				fmt.Printf("Endpoint '%s' (%s) added\n", name, endpoint)
			}

			return saveConfig(config)
		},
	}
}

func newEndpointsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured FHIR server endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			if len(config.Endpoints) == 0 {
				fmt.Println("No endpoints configured. Use 'gofhir endpoints add' to add one.")

				return nil
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

				return encoder.Encode(config)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(config)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Name", "URL", "Current")

				names := make([]string, 0, len(config.Endpoints))
				for name := range config.Endpoints {
					names = append(names, name)
				}

				sort.Strings(names)

				for _, name := range names {
					current := ""
					if name == config.Current {
						current = "yes"
					}

					table.Append(name, config.Endpoints[name], current)
				}

				return table.Render()
			}
		},
	}
}

func newEndpointsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a FHIR server endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			config, err := loadConfig()
			if err != nil {
				return err
			}

			if _, exists := config.Endpoints[name]; !exists {
				return fmt.Errorf("%w: %q", ErrEndpointNotFound, name)
			}

			delete(config.Endpoints, name)

			if config.Current == name {
				config.Current = ""
			}

			fmt.Printf("Endpoint '%s' removed\n", name)

			return saveConfig(config)
		},
	}
}

func newEndpointsTargetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "target NAME",
		Short: "Set the current FHIR server endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			config, err := loadConfig()
			if err != nil {
				return err
			}

			endpoint, exists := config.Endpoints[name]
			if !exists {
				return fmt.Errorf("%w: %q", ErrEndpointNotFound, name)
			}

			config.Current = name
			fmt.Printf("Now targeting '%s' (%s)\n", name, endpoint)

			return saveConfig(config)
		},
	}
}

// configPath returns the CLI config file location, honoring --config.
func configPath() (string, error) {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		return cfgFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	return filepath.Join(home, ".gofhir", "config.yml"), nil
}

// loadConfig reads the CLI config file; a missing file yields a zero Config.
func loadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	return loadConfigFrom(path)
}

func loadConfigFrom(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}

		return nil, fmt.Errorf("reading config: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return config, nil
}

// saveConfig persists the CLI config, creating the directory when needed.
func saveConfig(config *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	return saveConfigTo(path, config)
}

func saveConfigTo(path string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
