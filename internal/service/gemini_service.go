package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/myhireapp/myhire-api/internal/config"
	"google.golang.org/genai"
)

type GeminiServiceInterface interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// GeminiService produces embeddings for the related-jobs search. Embeddings
// are best-effort decorations written after a successful import; there is no
// retry loop because nothing in the import path depends on them.
type GeminiService struct {
	Client         *genai.Client
	RequestTimeout time.Duration
}

func NewGeminiService(ctx context.Context) (*GeminiService, error) {
	apiKey := config.LoadGeminiConfig().APIKey
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiService{
		Client:         client,
		RequestTimeout: 90 * time.Second,
	}, nil
}

func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}
	if len(trimmed) > 10000 {
		trimmed = trimmed[:10000]
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	content := []*genai.Content{genai.NewContentFromText(trimmed, genai.RoleUser)}
	result, err := s.Client.Models.EmbedContent(timeoutCtx, "gemini-embedding-001", content, nil)
	if err != nil {
		return nil, fmt.Errorf("generate embedding failed: %w", err)
	}
	return validateEmbeddingResponse(result)
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil || len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	values := resp.Embeddings[0].Values
	if len(values) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}
	for i, v := range values {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, v)
		}
	}
	return values, nil
}
