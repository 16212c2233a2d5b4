package newsapi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	xhttp "MarketBrief/pkg/http"
)

// Client implements NewsSearcher against a NewsAPI-compatible endpoint.
// A client constructed without an API key reports Enabled() == false and
// callers are expected to skip the fetch entirely.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	client   *xhttp.Client
}

// New creates a news search client. apiKey may be empty.
func New(apiKey, baseURL, language string, timeout time.Duration) drepo.NewsSearcher {
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		language: language,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type searchResponse struct {
	Status   string    `json:"status"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Articles []article `json:"articles"`
}

type article struct {
	Title  string `json:"title"`
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Search runs a headline query sorted by publish time. Untitled articles are
// dropped; everything else is passed through as-is.
func (c *Client) Search(ctx context.Context, query string, pageSize int) ([]models.NewsItem, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("news search disabled: no api key")
	}

	var resp searchResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL,
		QueryParams: map[string][]string{
			"q":        {query},
			"sortBy":   {"publishedAt"},
			"pageSize": {strconv.Itoa(pageSize)},
			"language": {c.language},
			"apiKey":   {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("news search: %w", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("news search: %s: %s", resp.Code, resp.Message)
	}

	items := make([]models.NewsItem, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if a.Title == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Title:       a.Title,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return items, nil
}
