package main

import (
	"fmt"
	"log"
	"os"

	"github.com/bilmo/backend/config"
	httpDelivery "github.com/bilmo/backend/internal/delivery/http"
	"github.com/bilmo/backend/internal/infrastructure/cache"
	"github.com/bilmo/backend/internal/infrastructure/gemini"
	"github.com/bilmo/backend/internal/infrastructure/scraper"
	"github.com/bilmo/backend/internal/infrastructure/searchapi"
	"github.com/bilmo/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Bilmo Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	log.Printf("Result cache TTL: %s", cfg.Cache.TTL)

	scraperClient := scraper.NewClient(cfg.Scraper.BaseURL, cfg.RateLimit.Scraper, cfg.Search.Retries)
	searchClient := searchapi.NewClient(searchapi.Config{
		APIKey:     cfg.SearchAPI.APIKey,
		BaseURL:    cfg.SearchAPI.BaseURL,
		Location:   cfg.SearchAPI.Location,
		GL:         cfg.SearchAPI.GL,
		HL:         cfg.SearchAPI.HL,
		MaxResults: cfg.SearchAPI.MaxResults,
	}, cfg.RateLimit.SearchAPI)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		scraperClient.SetDebug(true)
		log.Printf("Scraper client debug mode enabled")
	}

	log.Printf("Scraper configured: %s (fallback term %q)", cfg.Scraper.BaseURL, cfg.Scraper.FallbackTerm)
	log.Printf("Search API configured: %s", cfg.SearchAPI.BaseURL)

	planner, err := gemini.NewPlanner(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("Failed to create planner: %v", err)
	}
	log.Printf("Planner model: %s", cfg.Gemini.Model)

	// Initialize usecase layer
	searchService := usecase.NewSearchService(
		memoryCache,
		scraperClient,
		searchClient,
		usecase.SearchServiceConfig{
			CacheTTL:        cfg.Cache.TTL,
			ProviderTimeout: cfg.Search.Timeout,
			FallbackTerm:    cfg.Scraper.FallbackTerm,
			FallbackLimit:   cfg.Scraper.FallbackLimit,
		},
	)

	sessions := usecase.NewSessionStore()

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(planner, searchService, sessions)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
