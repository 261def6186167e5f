package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bilmo/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// SearchServiceConfig holds configuration for the aggregation pipeline
type SearchServiceConfig struct {
	CacheTTL        time.Duration
	ProviderTimeout time.Duration
	FallbackTerm    string
	FallbackLimit   int
}

// SearchService aggregates product results from the two marketplace
// scrapers and the general web-search provider into one ordered list.
type SearchService struct {
	cache           domain.ResultCache
	scraper         domain.ScraperClient
	webSearch       domain.WebSearchClient
	cacheTTL        time.Duration
	providerTimeout time.Duration
	fallbackTerm    string
	fallbackLimit   int
}

// NewSearchService creates a new search service with dependencies
func NewSearchService(
	cache domain.ResultCache,
	scraper domain.ScraperClient,
	webSearch domain.WebSearchClient,
	config SearchServiceConfig,
) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}
	providerTimeout := config.ProviderTimeout
	if providerTimeout == 0 {
		providerTimeout = 10 * time.Second
	}
	fallbackTerm := config.FallbackTerm
	if fallbackTerm == "" {
		fallbackTerm = "laptop"
	}

	return &SearchService{
		cache:           cache,
		scraper:         scraper,
		webSearch:       webSearch,
		cacheTTL:        cacheTTL,
		providerTimeout: providerTimeout,
		fallbackTerm:    fallbackTerm,
		fallbackLimit:   config.FallbackLimit,
	}
}

// SearchProducts runs the full aggregation for one query.
// Flow: check cache -> all-settled provider fan-out -> optional single
// fallback fetch -> classify -> sort priced bucket -> concatenate.
// An empty list is a valid "no results" outcome, never an error.
func (s *SearchService) SearchProducts(ctx context.Context, query string) ([]domain.ProductRecord, error) {
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	formatted := FormatSearchQuery(query)
	cacheKey := fmt.Sprintf("search:%s", formatted)

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		log.Printf("[SEARCH] cache hit for %q", formatted)
		return cached, nil
	}

	// All-settled fan-out: each provider fills its own slot and never
	// returns an error into the group, so one failure cannot cancel or
	// fail the join. Slots keep a fixed arrival order regardless of
	// which request finishes first.
	var flipkart, amazon, organic []domain.ProductRecord

	var g errgroup.Group
	g.Go(func() error {
		flipkart = s.fetchMarketplace(ctx, domain.MarketplaceFlipkart, formatted)
		return nil
	})
	g.Go(func() error {
		amazon = s.fetchMarketplace(ctx, domain.MarketplaceAmazon, formatted)
		return nil
	})
	g.Go(func() error {
		organic = s.fetchWebSearch(ctx, query)
		return nil
	})
	// The goroutines never return errors; Wait is only the join point.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	combined := make([]domain.ProductRecord, 0, len(flipkart)+len(amazon)+len(organic))
	combined = append(combined, flipkart...)
	combined = append(combined, amazon...)
	combined = append(combined, organic...)

	log.Printf("[SEARCH] %q: flipkart=%d amazon=%d organic=%d",
		formatted, len(flipkart), len(amazon), len(organic))

	// Total failure across all providers: one generic fetch so the UI
	// has something to show, tagged so degraded relevance is visible.
	if len(combined) == 0 {
		combined = s.fetchFallback(ctx)
	}

	dealsOrInfo, priced := domain.SplitResults(combined)
	domain.SortByPriceDesc(priced)

	// Info/deal records lead the list, then priced results high to low.
	final := make([]domain.ProductRecord, 0, len(combined))
	final = append(final, dealsOrInfo...)
	final = append(final, priced...)

	if err := s.cache.Set(ctx, cacheKey, final, s.cacheTTL); err != nil {
		log.Printf("[SEARCH] cache set failed for %q: %v", formatted, err)
	}

	return final, nil
}

// fetchMarketplace queries one scraper endpoint; failures are logged
// and swallowed so the remaining providers still contribute.
func (s *SearchService) fetchMarketplace(ctx context.Context, marketplace domain.Marketplace, query string) []domain.ProductRecord {
	cctx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	records, err := s.scraper.Search(cctx, marketplace, query)
	if err != nil {
		log.Printf("[SEARCH] %s search failed: %v", marketplace, err)
		return nil
	}
	return records
}

// fetchWebSearch queries the general search provider with the original
// (unformatted) query; failures are logged and swallowed.
func (s *SearchService) fetchWebSearch(ctx context.Context, query string) []domain.ProductRecord {
	cctx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	records, err := s.webSearch.SearchDeals(cctx, query)
	if err != nil {
		log.Printf("[SEARCH] web search failed: %v", err)
		return nil
	}
	return records
}

// fetchFallback fires the single generic fetch. It is never retried;
// failure here means an empty (still non-error) result.
func (s *SearchService) fetchFallback(ctx context.Context) []domain.ProductRecord {
	log.Printf("[SEARCH] no results from any provider, trying fallback term %q", s.fallbackTerm)

	cctx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	records, err := s.scraper.SearchFallback(cctx, s.fallbackTerm, s.fallbackLimit)
	if err != nil {
		log.Printf("[SEARCH] fallback search failed: %v", err)
		return nil
	}
	return records
}
