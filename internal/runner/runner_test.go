package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AlKhrulev/news-cli/internal/output"
)

type fakeSearcher struct {
	calls  []string
	bodies map[string][]byte
	errs   map[string]error
}

func (f *fakeSearcher) Search(ctx context.Context, topic string) ([]byte, error) {
	f.calls = append(f.calls, topic)
	if err := f.errs[topic]; err != nil {
		return nil, err
	}
	return f.bodies[topic], nil
}

type failingWriter struct {
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("broken pipe")
}

func TestRunEmitsBodiesInOrder(t *testing.T) {
	searcher := &fakeSearcher{
		bodies: map[string][]byte{
			"golang": []byte(`{"totalArticles":1}`),
			"rust":   []byte(`{"totalArticles":2}`),
			"zig":    []byte(`{"totalArticles":3}`),
		},
	}
	var out, errOut bytes.Buffer
	r := New(searcher, &out, output.NewPrinterWithWriter(&errOut, false), nil)

	summary, err := r.Run(context.Background(), []string{"golang", "rust", "zig"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := `{"totalArticles":1}` + "\n" + `{"totalArticles":2}` + "\n" + `{"totalArticles":3}` + "\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
	if got := strings.Join(searcher.calls, ","); got != "golang,rust,zig" {
		t.Errorf("request order = %s, want golang,rust,zig", got)
	}
	if summary.Succeeded != 3 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 3 succeeded, 0 failed", summary)
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected stderr output: %q", errOut.String())
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	searcher := &fakeSearcher{
		bodies: map[string][]byte{
			"golang": []byte(`{"a":1}`),
			"zig":    []byte(`{"c":3}`),
		},
		errs: map[string]error{
			"rust": errors.New("API returned 503 Service Unavailable"),
		},
	}
	var out, errOut bytes.Buffer
	r := New(searcher, &out, output.NewPrinterWithWriter(&errOut, false), nil)

	summary, err := r.Run(context.Background(), []string{"golang", "rust", "zig"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := `{"a":1}` + "\n" + `{"c":3}` + "\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
	if len(searcher.calls) != 3 {
		t.Errorf("expected all 3 topics attempted, got %v", searcher.calls)
	}
	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 2 succeeded, 1 failed", summary)
	}
	if !strings.Contains(errOut.String(), `topic "rust"`) {
		t.Errorf("stderr %q does not name the failed topic", errOut.String())
	}
	if !strings.Contains(errOut.String(), "503") {
		t.Errorf("stderr %q does not carry the cause", errOut.String())
	}
}

func TestRunAllTopicsFail(t *testing.T) {
	searcher := &fakeSearcher{
		errs: map[string]error{
			"golang": errors.New("request failed: connection refused"),
			"rust":   errors.New("request failed: connection refused"),
		},
	}
	var out, errOut bytes.Buffer
	r := New(searcher, &out, output.NewPrinterWithWriter(&errOut, false), nil)

	summary, err := r.Run(context.Background(), []string{"golang", "rust"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no stdout output, got %q", out.String())
	}
	if summary.Succeeded != 0 || summary.Failed != 2 {
		t.Errorf("summary = %+v, want 0 succeeded, 2 failed", summary)
	}
}

func TestRunBodyWrittenVerbatim(t *testing.T) {
	// Whitespace, ordering and non-ASCII must survive untouched.
	raw := []byte("{\n  \"articles\" : [ {\"title\":\"café\"} ],\"totalArticles\":1}")
	searcher := &fakeSearcher{bodies: map[string][]byte{"news": raw}}
	var out bytes.Buffer
	r := New(searcher, &out, output.NewPrinterWithWriter(&bytes.Buffer{}, false), nil)

	if _, err := r.Run(context.Background(), []string{"news"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !bytes.Equal(out.Bytes(), append(raw, '\n')) {
		t.Errorf("stdout = %q, want body plus newline", out.String())
	}
}

func TestRunStopsWhenOutputBreaks(t *testing.T) {
	searcher := &fakeSearcher{
		bodies: map[string][]byte{
			"golang": []byte(`{"a":1}`),
			"rust":   []byte(`{"b":2}`),
		},
	}
	w := &failingWriter{}
	r := New(searcher, w, output.NewPrinterWithWriter(&bytes.Buffer{}, false), nil)

	summary, err := r.Run(context.Background(), []string{"golang", "rust"})
	if err == nil {
		t.Fatal("expected error from broken writer, got nil")
	}
	if len(searcher.calls) != 1 {
		t.Errorf("expected run to stop after first topic, attempted %v", searcher.calls)
	}
	if summary.Succeeded != 0 {
		t.Errorf("summary = %+v, want 0 succeeded", summary)
	}
}

func TestRunEmptyTopics(t *testing.T) {
	var out bytes.Buffer
	r := New(&fakeSearcher{}, &out, output.NewPrinterWithWriter(&bytes.Buffer{}, false), nil)

	summary, err := r.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Succeeded != 0 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want zero counts", summary)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}
