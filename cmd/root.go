package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlKhrulev/news-cli/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagTopics       []string
	flagArticleCount string
	flagTimeout      string
	flagCache        bool
	flagAPIKey       string
	flagConfig       string
	flagVerbose      bool
	flagNoColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "news-cli",
	Short: "Fetch top news articles by topic as raw JSON",
	Long: `news-cli fetches top news articles for one or more topics from the GNews
search API (https://gnews.io/) and prints one raw JSON document per topic
to stdout, in the order the topics were given. Diagnostics go to stderr,
so the output is safe to pipe.

Examples:
  news-cli -t golang
  news-cli -t golang -t "machine learning" -c 5 | jq .
  NEWS_KEY=... news-cli -t science --cache --timeout 2.5`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runFetch,
}

func init() {
	rootCmd.Flags().StringArrayVarP(&flagTopics, "topic", "t", nil, "topic to search for (repeatable, at least one required)")
	rootCmd.Flags().StringVarP(&flagArticleCount, "article_count", "c", "", "articles per topic, 1-100 (default 10)")
	rootCmd.Flags().StringVar(&flagTimeout, "timeout", "", "per-topic request timeout in seconds, fractions allowed (default 10)")
	rootCmd.Flags().BoolVar(&flagCache, "cache", false, "serve repeated requests from the local response cache")
	rootCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "GNews API key (overrides NEWS_KEY and the config file)")

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug output on stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored stderr output")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionLine() + "\n")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &output.CLIError{
			Summary:    err.Error(),
			Suggestion: "Run 'news-cli --help' for usage.",
			ExitCode:   output.ExitUsageError,
		}
	})

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(versionLine())
	},
}

func versionLine() string {
	return fmt.Sprintf("news-cli %s (commit: %s, built: %s)", version, commit, date)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printer := output.NewPrinter(output.ResolveColors(flagNoColor))
		var cliErr *output.CLIError
		if errors.As(err, &cliErr) {
			printer.FormatError(cliErr)
			os.Exit(cliErr.ExitCode)
		}
		printer.Error("%v", err)
		os.Exit(output.ExitGeneral)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = v
	rootCmd.SetVersionTemplate(versionLine() + "\n")
}
