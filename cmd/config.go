package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlKhrulev/news-cli/internal/config"
	"github.com/AlKhrulev/news-cli/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  "Print the resolved configuration values and where the config file lives.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return &output.CLIError{
				Summary:  "cannot load configuration",
				Detail:   err.Error(),
				ExitCode: output.ExitConfigError,
			}
		}

		path := flagConfig
		if path == "" {
			path = config.DefaultConfigPath()
		}

		fmt.Printf("Config: %s\n", path)
		fmt.Printf("lang: %s\n", cfg.Lang)
		fmt.Printf("country: %s\n", cfg.Country)
		fmt.Printf("article_count: %d\n", cfg.ArticleCount)
		fmt.Printf("timeout: %v\n", cfg.TimeoutDuration())
		fmt.Printf("cache_ttl: %v\n", cfg.CacheTTLDuration())
		fmt.Printf("api_key: %s\n", keyStatus(cfg))
		return nil
	},
}

// keyStatus reports where the API key would come from, without printing it.
func keyStatus(cfg *config.Config) string {
	switch {
	case os.Getenv(config.EnvAPIKey) != "":
		return "(set via " + config.EnvAPIKey + ")"
	case cfg.APIKey != "":
		return "(set in config file)"
	default:
		return "(not set)"
	}
}
