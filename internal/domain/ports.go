package domain

import (
	"context"
	"time"
)

// Marketplace identifies one endpoint of the scraper microservice.
type Marketplace string

const (
	MarketplaceFlipkart Marketplace = "flipkart"
	MarketplaceAmazon   Marketplace = "amazon"
)

// ScraperClient defines the interface for the marketplace scraper
// service. Returned records are normalized and carry their source
// label; an empty slice is a valid outcome.
type ScraperClient interface {
	Search(ctx context.Context, marketplace Marketplace, query string) ([]ProductRecord, error)
	// SearchFallback is the single degraded-relevance fetch against the
	// primary marketplace; its records carry a distinct source label.
	SearchFallback(ctx context.Context, term string, limit int) ([]ProductRecord, error)
}

// WebSearchClient defines the interface for the general web-search
// provider. Records come back flagged as organic results.
type WebSearchClient interface {
	SearchDeals(ctx context.Context, query string) ([]ProductRecord, error)
}

// Planner turns a free-text query into a ProductPlan. apiKey, when
// non-empty, overrides the configured credential for this call.
type Planner interface {
	Plan(ctx context.Context, query, apiKey string) (*ProductPlan, error)
}

// ResultCache caches aggregated result lists keyed by normalized query.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]ProductRecord, error)
	Set(ctx context.Context, key string, records []ProductRecord, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
