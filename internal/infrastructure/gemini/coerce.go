package gemini

import (
	"fmt"

	"github.com/bilmo/backend/internal/domain"
)

// fallbackPlan wraps a free-text reply in the degraded-success shape:
// intro only, no primary product, no recommendations.
func fallbackPlan(text string) *domain.ProductPlan {
	if text == "" {
		text = "I will prepare a product plan based on your query."
	}
	return &domain.ProductPlan{
		AnswerIntro:         text,
		PrimaryProduct:      nil,
		RecommendedProducts: []domain.PlannedProduct{},
	}
}

// planFromArgs coerces the function-call arguments into a plan.
// Model output is untrusted: every field is defensively converted and
// malformed pieces degrade to empty values instead of failing.
func planFromArgs(args map[string]any) *domain.ProductPlan {
	plan := &domain.ProductPlan{
		AnswerIntro:         asString(args["answerIntro"]),
		RecommendedProducts: []domain.PlannedProduct{},
		SearchStrategy:      asString(args["searchStrategy"]),
	}

	if primary, ok := args["primaryProduct"].(map[string]any); ok {
		p := toPlannedProduct(primary)
		plan.PrimaryProduct = &p
	}

	if recs, ok := args["recommendedProducts"].([]any); ok {
		for _, rec := range recs {
			if m, ok := rec.(map[string]any); ok {
				plan.RecommendedProducts = append(plan.RecommendedProducts, toPlannedProduct(m))
			}
		}
	}

	return plan
}

// toPlannedProduct coerces one descriptor. Keywords default to empty
// on malformed input; confidence defaults to medium when absent or
// unrecognized.
func toPlannedProduct(m map[string]any) domain.PlannedProduct {
	confidence := domain.PlanConfidence(asString(m["confidence"]))
	if !domain.ValidConfidence(confidence) {
		confidence = domain.ConfidenceMedium
	}

	return domain.PlannedProduct{
		Name:       asString(m["name"]),
		Category:   asString(m["category"]),
		Keywords:   asStringSlice(m["keywords"]),
		Filters:    asStringMap(m["filters"]),
		Retailers:  asStringSlice(m["retailers"]),
		Rationale:  asString(m["rationale"]),
		Confidence: confidence,
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, asString(item))
	}
	return out
}

func asStringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		out[k] = asString(val)
	}
	return out
}
