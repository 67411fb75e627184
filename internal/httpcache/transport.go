package httpcache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Transport is an http.RoundTripper that serves repeated GETs to the same
// URL from a Store. Only 2xx responses are stored; everything else passes
// through untouched. Store failures degrade to plain network fetches.
type Transport struct {
	Store *Store
	TTL   time.Duration

	// Base performs real requests. nil means http.DefaultTransport.
	Base http.RoundTripper

	// Logger records hits, misses and store failures. nil disables logging.
	Logger *slog.Logger
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.base().RoundTrip(req)
	}

	key := req.URL.String()
	entry, err := t.Store.Get(key, t.TTL)
	if err != nil {
		t.log(slog.LevelWarn, "cache read failed", "error", err)
	}
	if entry != nil {
		t.log(slog.LevelDebug, "cache hit", "url", redactURL(key))
		return replay(entry, req), nil
	}
	t.log(slog.LevelDebug, "cache miss", "url", redactURL(key))

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response for cache: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	err = t.Store.Put(Entry{
		URL:         key,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now(),
	})
	if err != nil {
		t.log(slog.LevelWarn, "cache write failed", "error", err)
	}
	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) log(level slog.Level, msg string, args ...any) {
	if t.Logger == nil {
		return
	}
	t.Logger.Log(context.Background(), level, msg, args...)
}

func replay(e *Entry, req *http.Request) *http.Response {
	header := make(http.Header)
	if e.ContentType != "" {
		header.Set("Content-Type", e.ContentType)
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

// redactURL masks the apikey query parameter so URLs are safe to log.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("apikey") {
		q.Set("apikey", "redacted")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
