package searchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/bilmo/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Config holds the request parameters for the web-search provider.
type Config struct {
	APIKey     string
	BaseURL    string
	Location   string
	GL         string
	HL         string
	MaxResults int
}

// Client handles communication with the searchapi.io Google engine
type Client struct {
	httpClient  *http.Client
	cfg         Config
	rateLimiter *rate.Limiter
}

// NewClient creates a new web-search client
func NewClient(cfg Config, rps float64) *Client {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 15
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cfg:         cfg,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 5),
	}
}

// searchResponse is the provider's wire shape. Only the organic
// branch is consumed; shopping/local result arrays are ignored.
type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

type organicResult struct {
	Title              string              `json:"title"`
	Link               string              `json:"link"`
	Snippet            string              `json:"snippet"`
	Source             string              `json:"source"`
	Price              string              `json:"price"`
	Rating             string              `json:"rating"`
	Image              string              `json:"image"`
	Thumbnail          string              `json:"thumbnail"`
	Favicon            string              `json:"favicon"`
	DisplayedLink      string              `json:"displayed_link"`
	Position           int                 `json:"position"`
	HighlightedWords   []string            `json:"snippet_highlighted_words"`
	RichSnippet        *richSnippet        `json:"rich_snippet"`
	DetectedExtensions *detectedExtensions `json:"detected_extensions"`
}

type richSnippet struct {
	Extensions []string          `json:"extensions"`
	Top        *snippetExtension `json:"top"`
	Bottom     *snippetExtension `json:"bottom"`
}

type snippetExtension struct {
	Extensions []string `json:"extensions"`
}

type detectedExtensions struct {
	Rating  float64 `json:"rating"`
	Reviews int     `json:"reviews"`
}

// SearchDeals runs one deal-oriented search and returns the organic
// results normalized into product records. Duplicate destination
// links are dropped and the list is capped at the configured maximum.
func (c *Client) SearchDeals(ctx context.Context, query string) ([]domain.ProductRecord, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	// Bias the engine toward price/deal pages.
	dealQuery := fmt.Sprintf("%s best deals price comparison india", query)

	params := url.Values{}
	params.Add("engine", "google")
	params.Add("q", dealQuery)
	params.Add("location", c.cfg.Location)
	params.Add("gl", c.cfg.GL)
	params.Add("hl", c.cfg.HL)
	params.Add("device", "desktop")

	reqURL := fmt.Sprintf("%s?%s", c.cfg.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("User-Agent", "Bilmo/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrProviderFailure, resp.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	records := MapOrganicResults(searchResp.OrganicResults, c.cfg.MaxResults)
	log.Printf("[SEARCHAPI] %d organic results for %q", len(records), query)
	return records, nil
}
