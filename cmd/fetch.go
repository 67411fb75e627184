package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/AlKhrulev/news-cli/internal/config"
	"github.com/AlKhrulev/news-cli/internal/gnews"
	"github.com/AlKhrulev/news-cli/internal/httpcache"
	"github.com/AlKhrulev/news-cli/internal/output"
	"github.com/AlKhrulev/news-cli/internal/runner"
)

// maxTopicLen bounds a single search query.
const maxTopicLen = 255

func runFetch(cmd *cobra.Command, args []string) error {
	printer := output.NewPrinter(output.ResolveColors(flagNoColor))
	logger := newLogger(flagVerbose)

	topics, err := verifyTopics(flagTopics)
	if err != nil {
		return usageError(err, "Pass one or more topics, e.g. -t golang -t science.")
	}

	var count int
	if flagArticleCount != "" {
		if count, err = verifyArticleCount(flagArticleCount); err != nil {
			return usageError(err, "")
		}
	}
	var timeout time.Duration
	if flagTimeout != "" {
		if timeout, err = verifyTimeout(flagTimeout); err != nil {
			return usageError(err, "")
		}
	}

	// Cron deployments ship the key in a .env next to the unit.
	_ = godotenv.Load()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return &output.CLIError{
			Summary:  "cannot load configuration",
			Detail:   err.Error(),
			ExitCode: output.ExitConfigError,
		}
	}
	if count == 0 {
		count = cfg.ArticleCount
	}
	if timeout == 0 {
		timeout = cfg.TimeoutDuration()
	}

	key, err := cfg.ResolveAPIKey(flagAPIKey)
	if err != nil {
		return &output.CLIError{
			Summary:    err.Error(),
			Suggestion: "Get a free key at https://gnews.io/ and export it as " + config.EnvAPIKey + ".",
			ExitCode:   output.ExitConfigError,
		}
	}

	httpClient := &http.Client{Timeout: timeout}
	if flagCache {
		store, err := httpcache.Open(config.CachePath())
		if err != nil {
			printer.Warning("response cache unavailable, fetching directly: %v", err)
		} else {
			defer store.Close()
			httpClient.Transport = &httpcache.Transport{
				Store:  store,
				TTL:    cfg.CacheTTLDuration(),
				Logger: logger,
			}
		}
	}

	client := gnews.New(gnews.Options{
		APIKey:       key,
		Lang:         cfg.Lang,
		Country:      cfg.Country,
		ArticleCount: count,
		UserAgent:    "news-cli/" + version,
		HTTPClient:   httpClient,
	})

	logger.Debug("starting run",
		"topics", len(topics),
		"article_count", count,
		"timeout", timeout,
		"cache", flagCache)

	summary, err := runner.New(client, os.Stdout, printer, logger).Run(cmd.Context(), topics)
	if err != nil {
		return err
	}
	if summary.Failed > 0 && summary.Succeeded > 0 {
		printer.Warning("%d of %d topics failed", summary.Failed, len(topics))
	}
	if summary.Succeeded == 0 && summary.Failed > 0 {
		return &output.CLIError{
			Summary:  fmt.Sprintf("all %d topics failed", summary.Failed),
			ExitCode: output.ExitGeneral,
		}
	}
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func usageError(err error, suggestion string) *output.CLIError {
	return &output.CLIError{
		Summary:    err.Error(),
		Suggestion: suggestion,
		ExitCode:   output.ExitUsageError,
	}
}

func verifyTopics(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, errors.New("at least one --topic is required")
	}
	topics := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			return nil, errors.New("topics must not be empty")
		}
		if n := utf8.RuneCountInString(t); n > maxTopicLen {
			return nil, fmt.Errorf("topic too long: %d characters (max %d)", n, maxTopicLen)
		}
		topics = append(topics, t)
	}
	return topics, nil
}

func verifyArticleCount(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid --article_count %q: not an integer", raw)
	}
	if n < config.MinArticleCount || n > config.MaxArticleCount {
		return 0, fmt.Errorf("--article_count must be between %d and %d, got %d",
			config.MinArticleCount, config.MaxArticleCount, n)
	}
	return n, nil
}

func verifyTimeout(raw string) (time.Duration, error) {
	sec, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid --timeout %q: not a number", raw)
	}
	if !(sec > 0 && sec <= config.MaxTimeoutSec) {
		return 0, fmt.Errorf("--timeout must be greater than 0 and at most %d seconds, got %s",
			config.MaxTimeoutSec, raw)
	}
	return time.Duration(sec * float64(time.Second)), nil
}
