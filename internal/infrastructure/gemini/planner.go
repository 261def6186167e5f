package gemini

import (
	"context"
	"fmt"
	"log"

	"github.com/bilmo/backend/internal/domain"
	"google.golang.org/genai"
)

const planFunctionName = "product_plan"

// systemInstruction pins the model to the product_plan tool and keeps
// intros informative rather than promotional.
const systemInstruction = "You are a product search planner. Always call product_plan first and return: " +
	"answerIntro (2-4 sentences), one primaryProduct, and up to 5 recommendedProducts. " +
	"In answerIntro: clearly explain how the suggested items solve the user's purpose, what criteria you considered " +
	"(budget, durability, key specs), and the immediate next action you'll take (which product you'll search first). " +
	"Keep it crisp but informative, not marketing fluff. Keywords must be specific and executable. Include confidence. " +
	"If the query is ambiguous, ask one clarifying question within answerIntro and set confidence=low."

// plannedProductSchema declares one product descriptor for the tool.
func plannedProductSchema(nullable bool) *genai.Schema {
	s := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":      {Type: genai.TypeString},
			"category":  {Type: genai.TypeString},
			"keywords":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"filters":   {Type: genai.TypeObject},
			"retailers": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"rationale": {Type: genai.TypeString},
			"confidence": {
				Type: genai.TypeString,
				Enum: []string{"low", "medium", "high"},
			},
		},
		Required: []string{"name", "keywords", "confidence"},
	}
	if nullable {
		s.Nullable = genai.Ptr(true)
	}
	return s
}

// productPlanFunction is the single tool declared to the model.
var productPlanFunction = &genai.FunctionDeclaration{
	Name: planFunctionName,
	Description: "Given a user query, propose a primary product to search and 3-5 related products. " +
		"Return concise, executable keywords and optional filters/retailers. Include a brief intro for the user.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"answerIntro":    {Type: genai.TypeString},
			"primaryProduct": plannedProductSchema(true),
			"recommendedProducts": {
				Type:  genai.TypeArray,
				Items: plannedProductSchema(false),
			},
			"searchStrategy": {Type: genai.TypeString},
		},
		Required: []string{"answerIntro", "primaryProduct", "recommendedProducts"},
	},
}

// Planner issues product_plan requests against the Gemini API.
type Planner struct {
	apiKey string
	model  string
}

// NewPlanner creates a planner. The configured key is required; a
// per-call override may still replace it.
func NewPlanner(apiKey, model string) (*Planner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &Planner{
		apiKey: apiKey,
		model:  model,
	}, nil
}

// Plan runs one planning call. A reply without the expected function
// call is the degraded-success path and yields a minimal plan carrying
// the raw text; transport and auth failures propagate to the caller.
func (p *Planner) Plan(ctx context.Context, query, apiKey string) (*domain.ProductPlan, error) {
	key := apiKey
	if key == "" {
		key = p.apiKey
	}

	// The client is rebuilt per call so a caller-supplied key never
	// leaks into later requests.
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPlannerFailure, err)
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(query), &genai.GenerateContentConfig{
		// Low temperature favors consistent, executable keyword lists.
		Temperature:       genai.Ptr[float32](0.2),
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Tools: []*genai.Tool{
			{FunctionDeclarations: []*genai.FunctionDeclaration{productPlanFunction}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPlannerFailure, err)
	}

	calls := resp.FunctionCalls()
	if len(calls) == 0 || calls[0].Name != planFunctionName {
		log.Printf("[PLANNER] no %s call in reply, using degraded plan", planFunctionName)
		return fallbackPlan(resp.Text()), nil
	}

	return planFromArgs(calls[0].Args), nil
}
