// Package runner drives one fetch run: every topic in order, one request
// each, raw bodies to the output writer.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/AlKhrulev/news-cli/internal/gnews"
	"github.com/AlKhrulev/news-cli/internal/output"
)

// Searcher fetches the raw response body for one topic.
type Searcher interface {
	Search(ctx context.Context, topic string) ([]byte, error)
}

// Summary counts per-topic outcomes of a run.
type Summary struct {
	Succeeded int
	Failed    int
}

type Runner struct {
	searcher Searcher
	out      io.Writer
	printer  *output.Printer
	logger   *slog.Logger
}

// New creates a runner emitting bodies to out and diagnostics through
// printer. logger may be nil to disable debug lines.
func New(searcher Searcher, out io.Writer, printer *output.Printer, logger *slog.Logger) *Runner {
	return &Runner{searcher: searcher, out: out, printer: printer, logger: logger}
}

// Run fetches every topic in order. Each successful body is written to out
// exactly as received, followed by one newline. A failed topic is reported
// through the printer and the remaining topics still run. A non-nil error
// means the output writer itself failed and the run stopped early.
func (r *Runner) Run(ctx context.Context, topics []string) (Summary, error) {
	var s Summary
	for _, topic := range topics {
		start := time.Now()
		body, err := r.searcher.Search(ctx, topic)
		if err != nil {
			r.printer.Error("topic %q: %v", topic, err)
			s.Failed++
			continue
		}
		if r.logger != nil && r.logger.Enabled(ctx, slog.LevelDebug) {
			attrs := []any{
				"topic", topic,
				"bytes", len(body),
				"elapsed", time.Since(start).Round(time.Millisecond),
			}
			if n, err := gnews.ArticleCount(body); err == nil {
				attrs = append(attrs, "articles", n)
			}
			r.logger.Debug("topic fetched", attrs...)
		}

		if _, err := r.out.Write(body); err != nil {
			return s, fmt.Errorf("writing output: %w", err)
		}
		if _, err := io.WriteString(r.out, "\n"); err != nil {
			return s, fmt.Errorf("writing output: %w", err)
		}
		s.Succeeded++
	}
	return s, nil
}
