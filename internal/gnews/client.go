// Package gnews is a thin client for the GNews search API. Search
// returns raw response bodies so callers can pipe them on without any
// reformatting.
package gnews

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// BaseURL is the fixed GNews search endpoint.
const BaseURL = "https://gnews.io/api/v4/search"

// Options configures a Client.
type Options struct {
	APIKey       string
	Lang         string
	Country      string
	ArticleCount int
	Timeout      time.Duration
	UserAgent    string

	// Endpoint overrides BaseURL, for tests.
	Endpoint string

	// HTTPClient overrides the default client, e.g. to install a
	// caching transport. Its Timeout is left untouched if set.
	HTTPClient *http.Client
}

// Client issues search requests against the GNews API.
type Client struct {
	endpoint   string
	apiKey     string
	lang       string
	country    string
	count      int
	userAgent  string
	httpClient *http.Client
}

func New(opts Options) *Client {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = BaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     opts.APIKey,
		lang:       opts.Lang,
		country:    opts.Country,
		count:      opts.ArticleCount,
		userAgent:  opts.UserAgent,
		httpClient: httpClient,
	}
}

// Search fetches the top articles for one topic and returns the response
// body exactly as the API sent it. Errors never carry the request URL,
// which holds the API key.
func (c *Client) Search(ctx context.Context, topic string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(topic), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("API returned %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

func (c *Client) searchURL(topic string) string {
	params := url.Values{}
	params.Set("q", topic)
	params.Set("lang", c.lang)
	params.Set("country", c.country)
	params.Set("max", strconv.Itoa(c.count))
	params.Set("apikey", c.apiKey)
	return c.endpoint + "?" + params.Encode()
}
