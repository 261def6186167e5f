package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProviderFailure is returned when an outbound provider request fails
	ErrProviderFailure = errors.New("provider request failed")

	// ErrPlannerFailure is returned when the planning LLM call fails
	ErrPlannerFailure = errors.New("planner request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
