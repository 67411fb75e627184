package gnews

import (
	"encoding/json"
	"time"
)

// Response mirrors the GNews search payload. Fetch output stays the raw
// body; these types exist for diagnostics and tests.
type Response struct {
	TotalArticles int       `json:"totalArticles"`
	Articles      []Article `json:"articles"`
}

type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	Image       string    `json:"image"`
	PublishedAt time.Time `json:"publishedAt"`
	Source      Source    `json:"source"`
}

type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ArticleCount decodes a raw body to report how many articles it
// carries. Used for verbose logging.
func ArticleCount(body []byte) (int, error) {
	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		return 0, err
	}
	return r.TotalArticles, nil
}
