package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bilmo/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCache is a map-backed ResultCache without expiry.
type stubCache struct {
	mu   sync.Mutex
	data map[string][]domain.ProductRecord
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string][]domain.ProductRecord)}
}

func (c *stubCache) Get(ctx context.Context, key string) ([]domain.ProductRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if records, ok := c.data[key]; ok {
		return records, nil
	}
	return nil, domain.ErrCacheMiss
}

func (c *stubCache) Set(ctx context.Context, key string, records []domain.ProductRecord, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = records
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// fakeScraper serves canned per-marketplace results or errors and
// counts calls.
type fakeScraper struct {
	mu              sync.Mutex
	results         map[domain.Marketplace][]domain.ProductRecord
	errs            map[domain.Marketplace]error
	fallbackResults []domain.ProductRecord
	fallbackErr     error
	searchCalls     int
	fallbackCalls   int
}

func (f *fakeScraper) Search(ctx context.Context, marketplace domain.Marketplace, query string) ([]domain.ProductRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if err := f.errs[marketplace]; err != nil {
		return nil, err
	}
	return f.results[marketplace], nil
}

func (f *fakeScraper) SearchFallback(ctx context.Context, term string, limit int) ([]domain.ProductRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallbackCalls++
	if f.fallbackErr != nil {
		return nil, f.fallbackErr
	}
	records := f.fallbackResults
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

type fakeWebSearch struct {
	results []domain.ProductRecord
	err     error
	calls   int
	mu      sync.Mutex
}

func (f *fakeWebSearch) SearchDeals(ctx context.Context, query string) ([]domain.ProductRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func newTestService(scraper *fakeScraper, web *fakeWebSearch, cache domain.ResultCache) *SearchService {
	return NewSearchService(cache, scraper, web, SearchServiceConfig{
		CacheTTL:        time.Minute,
		ProviderTimeout: time.Second,
		FallbackTerm:    "laptop",
		FallbackLimit:   10,
	})
}

func TestSearchProducts_OrderingInvariant(t *testing.T) {
	scraperFake := &fakeScraper{
		results: map[domain.Marketplace][]domain.ProductRecord{
			domain.MarketplaceFlipkart: {
				{Title: "fk-cheap", Price: "₹20,000", Source: "Flipkart"},
				{Title: "fk-pricey", Price: "₹80,000", Source: "Flipkart"},
			},
			domain.MarketplaceAmazon: {
				{Title: "am-noprice", Price: "Price N/A", Source: "Amazon"},
			},
		},
	}
	webFake := &fakeWebSearch{
		results: []domain.ProductRecord{
			{Title: "organic", Price: "₹99,999", Source: "example.com", IsOrganicResult: true},
		},
	}

	svc := newTestService(scraperFake, webFake, newStubCache())
	results, err := svc.SearchProducts(context.Background(), "gaming laptop")

	require.NoError(t, err)
	require.Len(t, results, 4)

	// No-firm-price bucket first in arrival order, then prices high to low.
	assert.Equal(t, "am-noprice", results[0].Title)
	assert.Equal(t, "organic", results[1].Title)
	assert.Equal(t, "fk-pricey", results[2].Title)
	assert.Equal(t, "fk-cheap", results[3].Title)

	// Priced suffix is non-increasing after digit extraction.
	assert.GreaterOrEqual(t,
		domain.PriceValue(results[2].Price),
		domain.PriceValue(results[3].Price))
	assert.Equal(t, 0, scraperFake.fallbackCalls)
}

func TestSearchProducts_ArrivalOrderAcrossSubSources(t *testing.T) {
	// Provider A (Flipkart) returns one priced record, provider B
	// (Amazon) one record without a price, the web search one organic
	// record. The no-price record precedes the organic one because
	// arrival order inside the info bucket ignores sub-source.
	scraperFake := &fakeScraper{
		results: map[domain.Marketplace][]domain.ProductRecord{
			domain.MarketplaceFlipkart: {
				{Title: "provider-a", Price: "₹75,000", Source: "Flipkart"},
			},
			domain.MarketplaceAmazon: {
				{Title: "provider-b", Source: "Amazon"},
			},
		},
	}
	webFake := &fakeWebSearch{
		results: []domain.ProductRecord{
			{Title: "organic", Price: "Price N/A", Source: "example.com", IsOrganicResult: true},
		},
	}

	svc := newTestService(scraperFake, webFake, newStubCache())
	results, err := svc.SearchProducts(context.Background(), "gaming laptop under 80000")

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "provider-b", results[0].Title)
	assert.Equal(t, "organic", results[1].Title)
	assert.Equal(t, "provider-a", results[2].Title)
}

func TestSearchProducts_PartialProviderFailure(t *testing.T) {
	scraperFake := &fakeScraper{
		results: map[domain.Marketplace][]domain.ProductRecord{
			domain.MarketplaceAmazon: {
				{Title: "am-1", Price: "₹10,000", Source: "Amazon"},
			},
		},
		errs: map[domain.Marketplace]error{
			domain.MarketplaceFlipkart: errors.New("connection refused"),
		},
	}
	webFake := &fakeWebSearch{err: errors.New("quota exceeded")}

	svc := newTestService(scraperFake, webFake, newStubCache())
	results, err := svc.SearchProducts(context.Background(), "mouse")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "am-1", results[0].Title)
	// Combined list was non-empty, so no fallback.
	assert.Equal(t, 0, scraperFake.fallbackCalls)
}

func TestSearchProducts_FallbackFiresExactlyOnce(t *testing.T) {
	scraperFake := &fakeScraper{
		errs: map[domain.Marketplace]error{
			domain.MarketplaceFlipkart: errors.New("down"),
			domain.MarketplaceAmazon:   errors.New("down"),
		},
		fallbackResults: []domain.ProductRecord{
			{Title: "generic-laptop", Price: "₹40,000", Source: "Flipkart (Fallback)"},
		},
	}
	webFake := &fakeWebSearch{err: errors.New("down")}

	svc := newTestService(scraperFake, webFake, newStubCache())
	results, err := svc.SearchProducts(context.Background(), "obscure gadget")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Flipkart (Fallback)", results[0].Source)
	assert.Equal(t, 1, scraperFake.fallbackCalls)
}

func TestSearchProducts_FallbackFailureYieldsEmptyList(t *testing.T) {
	scraperFake := &fakeScraper{
		errs: map[domain.Marketplace]error{
			domain.MarketplaceFlipkart: errors.New("down"),
			domain.MarketplaceAmazon:   errors.New("down"),
		},
		fallbackErr: errors.New("still down"),
	}
	webFake := &fakeWebSearch{err: errors.New("down")}

	svc := newTestService(scraperFake, webFake, newStubCache())
	results, err := svc.SearchProducts(context.Background(), "anything")

	// Empty is a valid outcome, not an error.
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 1, scraperFake.fallbackCalls)
}

func TestSearchProducts_CacheHitSkipsProviders(t *testing.T) {
	cached := []domain.ProductRecord{{Title: "cached", Price: "₹1,000", Source: "Flipkart"}}
	cache := newStubCache()
	cache.data["search:gaming-laptop"] = cached

	scraperFake := &fakeScraper{}
	webFake := &fakeWebSearch{}

	svc := newTestService(scraperFake, webFake, cache)
	results, err := svc.SearchProducts(context.Background(), "Gaming  Laptop")

	require.NoError(t, err)
	assert.Equal(t, cached, results)
	assert.Equal(t, 0, scraperFake.searchCalls)
	assert.Equal(t, 0, webFake.calls)
}

func TestSearchProducts_CachesFinalOrdering(t *testing.T) {
	cache := newStubCache()
	scraperFake := &fakeScraper{
		results: map[domain.Marketplace][]domain.ProductRecord{
			domain.MarketplaceFlipkart: {
				{Title: "fk", Price: "₹5,000", Source: "Flipkart"},
			},
		},
	}
	webFake := &fakeWebSearch{}

	svc := newTestService(scraperFake, webFake, cache)
	results, err := svc.SearchProducts(context.Background(), "mouse pad")

	require.NoError(t, err)
	assert.Equal(t, results, cache.data["search:mouse-pad"])
}

func TestSearchProducts_EmptyQuery(t *testing.T) {
	svc := newTestService(&fakeScraper{}, &fakeWebSearch{}, newStubCache())

	results, err := svc.SearchProducts(context.Background(), "")

	assert.Nil(t, results)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
