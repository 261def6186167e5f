package gemini

import (
	"testing"

	"github.com/bilmo/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackPlan(t *testing.T) {
	plan := fallbackPlan("Here is what I think about laptops.")

	assert.Equal(t, "Here is what I think about laptops.", plan.AnswerIntro)
	assert.Nil(t, plan.PrimaryProduct)
	assert.Empty(t, plan.RecommendedProducts)
	assert.NotNil(t, plan.RecommendedProducts)
}

func TestFallbackPlan_EmptyText(t *testing.T) {
	plan := fallbackPlan("")

	assert.NotEmpty(t, plan.AnswerIntro)
	assert.Nil(t, plan.PrimaryProduct)
}

func TestPlanFromArgs_FullPlan(t *testing.T) {
	args := map[string]any{
		"answerIntro": "A gaming laptop under 80k needs a dedicated GPU.",
		"primaryProduct": map[string]any{
			"name":       "Gaming Laptop",
			"category":   "electronics",
			"keywords":   []any{"gaming", "laptop", "rtx"},
			"filters":    map[string]any{"max_price": 80000},
			"retailers":  []any{"Flipkart", "Amazon"},
			"rationale":  "Best value in the budget",
			"confidence": "high",
		},
		"recommendedProducts": []any{
			map[string]any{
				"name":       "Cooling Pad",
				"keywords":   []any{"laptop", "cooling", "pad"},
				"confidence": "medium",
			},
		},
		"searchStrategy": "start with the primary product",
	}

	plan := planFromArgs(args)

	assert.Equal(t, "A gaming laptop under 80k needs a dedicated GPU.", plan.AnswerIntro)
	assert.Equal(t, "start with the primary product", plan.SearchStrategy)

	require.NotNil(t, plan.PrimaryProduct)
	assert.Equal(t, "Gaming Laptop", plan.PrimaryProduct.Name)
	assert.Equal(t, []string{"gaming", "laptop", "rtx"}, plan.PrimaryProduct.Keywords)
	assert.Equal(t, domain.ConfidenceHigh, plan.PrimaryProduct.Confidence)
	// Non-string filter values are stringified.
	assert.Equal(t, "80000", plan.PrimaryProduct.Filters["max_price"])

	require.Len(t, plan.RecommendedProducts, 1)
	assert.Equal(t, "Cooling Pad", plan.RecommendedProducts[0].Name)
}

func TestPlanFromArgs_NullPrimaryProduct(t *testing.T) {
	plan := planFromArgs(map[string]any{
		"answerIntro":         "Could you clarify your budget?",
		"primaryProduct":      nil,
		"recommendedProducts": []any{},
	})

	assert.Nil(t, plan.PrimaryProduct)
	assert.Empty(t, plan.RecommendedProducts)
}

func TestToPlannedProduct_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		expected domain.PlannedProduct
	}{
		{
			name:  "missing confidence defaults to medium",
			input: map[string]any{"name": "Laptop", "keywords": []any{"laptop"}},
			expected: domain.PlannedProduct{
				Name:       "Laptop",
				Keywords:   []string{"laptop"},
				Confidence: domain.ConfidenceMedium,
			},
		},
		{
			name:  "unrecognized confidence defaults to medium",
			input: map[string]any{"name": "Laptop", "keywords": []any{"laptop"}, "confidence": "certain"},
			expected: domain.PlannedProduct{
				Name:       "Laptop",
				Keywords:   []string{"laptop"},
				Confidence: domain.ConfidenceMedium,
			},
		},
		{
			name:  "malformed keywords default to empty",
			input: map[string]any{"name": "Laptop", "keywords": "laptop", "confidence": "low"},
			expected: domain.PlannedProduct{
				Name:       "Laptop",
				Keywords:   []string{},
				Confidence: domain.ConfidenceLow,
			},
		},
		{
			name:  "numeric name is stringified",
			input: map[string]any{"name": 42, "confidence": "high"},
			expected: domain.PlannedProduct{
				Name:       "42",
				Keywords:   []string{},
				Confidence: domain.ConfidenceHigh,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, toPlannedProduct(tt.input))
		})
	}
}

func TestNewPlanner_RequiresKey(t *testing.T) {
	planner, err := NewPlanner("", "gemini-2.5-flash")

	assert.Nil(t, planner)
	assert.Error(t, err)
}

func TestNewPlanner_DefaultModel(t *testing.T) {
	planner, err := NewPlanner("key", "")

	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", planner.model)
}
