package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiKey      string
	configFile  string
	envFile     string
	outputDir   string
	status      string
	concurrency int
	debugMode   bool

	debugEnabled bool
)

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	debugEnabled = enabled
}

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}

var rootCmd = &cobra.Command{
	Use:   "docs-export",
	Short: "Export a Help Scout Docs knowledge base to Markdown",
	Long: `Exports every article of a Help Scout Docs site into
articles/<collection>/<article>.md with YAML front-matter, and dumps the
collection and category tables to articles/collections.json and
articles/categories.json.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if debugMode {
			SetDebugMode(true)
		}

		if err := loadEnvFile(envFile); err != nil {
			return err
		}

		key, err := resolveAPIKey(apiKey)
		if err != nil {
			return err
		}

		settings, err := loadSettings(configFile)
		if err != nil {
			return err
		}

		overrides := &ConfigOverrides{}
		if cmd.Flags().Changed("output") {
			overrides.OutputDirectory = &outputDir
		}
		if cmd.Flags().Changed("status") {
			overrides.Status = &status
		}
		if cmd.Flags().Changed("concurrency") {
			overrides.Concurrency = &concurrency
		}
		overrides.Apply(settings)

		client, err := NewClient(key, settings.BaseURL)
		if err != nil {
			return err
		}

		log.Printf("→ Exporting %s articles to %s/", settings.Status, settings.OutputDirectory)
		result, err := NewExporter(client, settings).Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		log.Printf("✓ Exported %d articles from %d collections (%d categories)",
			result.Articles, result.Collections, result.Categories)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "Help Scout Docs API key (default $"+apiKeyEnv+")")
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to a YAML settings file")
	rootCmd.Flags().StringVar(&envFile, "env-file", defaultEnvFile, "Path to a .env file")
	rootCmd.Flags().StringVar(&outputDir, "output", defaultOutputDirectory, "Output directory")
	rootCmd.Flags().StringVar(&status, "status", defaultStatus, "Article status to export (published, notpublished, all)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of articles fetched at once")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
