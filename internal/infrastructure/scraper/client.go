package scraper

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

// sourceLabels maps a marketplace to the label stamped on its records.
var sourceLabels = map[domain.Marketplace]string{
	domain.MarketplaceFlipkart: "Flipkart",
	domain.MarketplaceAmazon:   "Amazon",
}

// Client handles communication with the marketplace scraper service
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	retries     int
	debug       bool
}

// NewClient creates a new scraper client. rps bounds outbound request
// rate; retries is the per-search attempt budget for transient failures.
func NewClient(baseURL string, rps float64, retries int) *Client {
	if retries < 1 {
		retries = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 10),
		retries:     retries,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// searchResponse is the scraper service's wire shape.
type searchResponse struct {
	Results []scrapedProduct `json:"results"`
}

type scrapedProduct struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Image  string `json:"image"`
	Price  string `json:"price"`
	Rating string `json:"rating"`
}

// Search queries one marketplace endpoint for a normalized product
// query. Records come back tagged with the marketplace label. An empty
// result list is returned as an empty slice, not an error.
func (c *Client) Search(ctx context.Context, marketplace domain.Marketplace, query string) ([]domain.ProductRecord, error) {
	label, ok := sourceLabels[marketplace]
	if !ok {
		return nil, fmt.Errorf("%w: unknown marketplace %q", domain.ErrInvalidRequest, marketplace)
	}

	endpoint := fmt.Sprintf("%s/search/%s", c.baseURL, marketplace)
	params := url.Values{}
	params.Add("product", query)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	if c.debug {
		log.Printf("[SCRAPER] %s search: %s", label, reqURL)
	}

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[SCRAPER] %s request error (attempt %d): %v", label, attempt, err)
			lastErr = err
			if ctx.Err() != nil {
				return nil, lastErr
			}
			// No point backing off after the last attempt.
			if attempt < c.retries {
				time.Sleep(exponentialBackoff(attempt))
			}
			continue
		}

		var searchResp searchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("failed to decode %s response: %w", label, err)
		}

		records := make([]domain.ProductRecord, 0, len(searchResp.Results))
		for _, p := range searchResp.Results {
			records = append(records, domain.ProductRecord{
				Title:  p.Title,
				Link:   p.Link,
				Image:  p.Image,
				Price:  p.Price,
				Rating: p.Rating,
				Source: label,
			})
		}

		if c.debug {
			log.Printf("[SCRAPER] %s returned %d results for %q", label, len(records), query)
		}
		return records, nil
	}

	log.Printf("[SCRAPER] %s all retries failed for query %q", label, query)
	return nil, lastErr
}

// SearchFallback runs the single degraded-relevance fetch against the
// primary marketplace with a generic term, capping and retagging the
// results so the caller can disclose reduced relevance.
func (c *Client) SearchFallback(ctx context.Context, term string, limit int) ([]domain.ProductRecord, error) {
	records, err := c.Search(ctx, domain.MarketplaceFlipkart, term)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	for i := range records {
		records[i].Source = "Flipkart (Fallback)"
	}
	return records, nil
}

// doRequest executes an HTTP GET and returns the body on 200.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Bilmo/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrProviderFailure, resp.StatusCode, string(body))
	}

	return body, nil
}

// exponentialBackoff returns the wait before the next retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}
