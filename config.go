package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	apiKeyEnv              = "HELPSCOUT_API_KEY"
	defaultOutputDirectory = "articles"
	defaultEnvFile         = ".env"
)

var ErrMissingAPIKey = errors.New("API key required: use --api-key flag or " + apiKeyEnv + " environment variable")

// Settings represents the YAML configuration structure
type Settings struct {
	OutputDirectory string `yaml:"output_directory"`
	Status          string `yaml:"status"`
	BaseURL         string `yaml:"base_url"`
	Concurrency     int    `yaml:"concurrency"`
}

// ConfigOverrides holds values set on the command line
type ConfigOverrides struct {
	OutputDirectory *string
	Status          *string
	Concurrency     *int
}

// defaultSettings reproduces the behavior of a bare run
func defaultSettings() *Settings {
	return &Settings{
		OutputDirectory: defaultOutputDirectory,
		Status:          defaultStatus,
		BaseURL:         defaultBaseURL,
		Concurrency:     1,
	}
}

// loadSettings reads settings from a YAML file on top of the defaults.
// An empty path returns the defaults.
func loadSettings(settingsPath string) (*Settings, error) {
	settings := defaultSettings()
	if settingsPath == "" {
		return settings, nil
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", settingsPath, err)
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	if settings.Concurrency < 1 {
		log.Printf("Warning: concurrency is %d, defaulting to 1", settings.Concurrency)
		settings.Concurrency = 1
	}
	if settings.OutputDirectory == "" {
		settings.OutputDirectory = defaultOutputDirectory
	}
	if settings.Status == "" {
		settings.Status = defaultStatus
	}

	return settings, nil
}

// Apply copies every set override onto the settings
func (o *ConfigOverrides) Apply(settings *Settings) {
	if o == nil {
		return
	}
	if o.OutputDirectory != nil {
		settings.OutputDirectory = *o.OutputDirectory
	}
	if o.Status != nil {
		settings.Status = *o.Status
	}
	if o.Concurrency != nil && *o.Concurrency > 0 {
		settings.Concurrency = *o.Concurrency
	}
}

// loadEnvFile loads variables from a .env file without overriding the
// environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// resolveAPIKey prefers the flag value over the environment
func resolveAPIKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if key := os.Getenv(apiKeyEnv); key != "" {
		return key, nil
	}
	return "", ErrMissingAPIKey
}
