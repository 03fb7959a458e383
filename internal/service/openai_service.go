package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/myhireapp/myhire-api/internal/config"
	"github.com/tidwall/gjson"
)

type OpenAIServiceInterface interface {
	ChatJSON(ctx context.Context, apiKey, system, user string) (string, error)
}

// OpenAIService talks to the chat-completions endpoint with forced JSON
// response mode. The API key is passed per call: user-level keys override the
// system fallback and are resolved once per request by the caller.
type OpenAIService struct {
	client  *resty.Client
	baseURL string
	model   string
}

func NewOpenAIService() *OpenAIService {
	return &OpenAIService{
		client:  resty.New().SetTimeout(90 * time.Second),
		baseURL: "https://api.openai.com/v1",
		model:   config.LoadOpenAIConfig().Model,
	}
}

func (s *OpenAIService) ChatJSON(ctx context.Context, apiKey, system, user string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model":           s.model,
			"response_format": map[string]string{"type": "json_object"},
			"messages": []map[string]string{
				{"role": "system", "content": system},
				{"role": "user", "content": user},
			},
		}).
		Post(s.baseURL + "/chat/completions")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("chat completion returned status %d", resp.StatusCode())
	}

	content := gjson.Get(resp.String(), "choices.0.message.content").String()
	if content == "" {
		return "", fmt.Errorf("no response from LLM")
	}
	return content, nil
}
