package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/user/seo-scanner/internal/entity"
)

const systemPrompt = "You are an SEO and web analysis expert. Analyze the given website URL. " +
	"Provide a JSON response with the following fields: " +
	"'summary' (brief description of what the website is), " +
	"'services' (list of services or products provided), " +
	"'locations' (list of locations where services are provided, if applicable), " +
	"'seoTitle' (a recommended SEO title for a report page about this site), " +
	"'seoDescription' (a recommended meta description), " +
	"'seoKeywords' (list of keywords)."

var errEmptyCompletion = errors.New("no content from completion")

// Summarizer asks an OpenAI-compatible chat completion endpoint for a JSON
// site summary.
type Summarizer struct {
	client *goopenai.Client
	model  string
}

// NewSummarizer builds a client for apiKey. An empty baseURL uses the
// public OpenAI endpoint.
func NewSummarizer(apiKey, baseURL, model string) *Summarizer {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = goopenai.GPT4o
	}
	return &Summarizer{client: goopenai.NewClientWithConfig(cfg), model: model}
}

func (s *Summarizer) Summarize(ctx context.Context, url string) (*entity.AISummary, error) {
	resp, err := s.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: s.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: "Analyze this website: " + url},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, errEmptyCompletion
	}

	var summary entity.AISummary
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	// The model's own "error" key is not a service failure.
	summary.Error, summary.Details = "", ""
	return &summary, nil
}
