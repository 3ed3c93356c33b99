package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
	"github.com/vishaltiwari230996/life-sorter/internal/observability"
)

type VertexConfig struct {
	Project   string
	Location  string
	ModelName string
}

// VertexRecommender implements domain.Recommender with Gemini on Vertex AI.
type VertexRecommender struct {
	client    *genai.Client
	modelName string
}

func NewVertexRecommender(ctx context.Context, cfg VertexConfig) (*VertexRecommender, error) {
	if cfg.Project == "" || cfg.Location == "" {
		return nil, fmt.Errorf("vertex project and location must be set")
	}
	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash-lite"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexRecommender{
		client:    client,
		modelName: modelName,
	}, nil
}

// Recommend implements domain.Recommender. It makes a single call; the
// caller decides whether to retry.
func (v *VertexRecommender) Recommend(ctx context.Context, req domain.RecommendationRequest) (*domain.RecommendationSet, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", req.SessionID, "model", v.modelName)

	prompt := BuildRecommendationPrompt(req)
	contents := []*genai.Content{genai.NewContentFromText(prompt.User, genai.RoleUser)}

	temp := float32(0.5)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   int32(2000),
		ResponseMIMEType:  "application/json",
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("vertex generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return nil, fmt.Errorf("vertex returned empty text")
	}

	set, err := ParseRecommendations(text)
	if err != nil {
		log.Error("failed to parse recommendations", "error", err)
		return nil, err
	}

	log.Info("recommendations generated",
		"domain", req.Domain,
		"task", req.Task,
		"extensions", len(set.Extensions),
		"gpts", len(set.GPTs),
		"companies", len(set.Companies),
	)
	return set, nil
}
