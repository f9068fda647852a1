package openai

import (
	"github.com/sashabaranov/go-openai"
)

// NewClient creates an OpenAI client. baseURL may point at any
// OpenAI-compatible server; empty keeps the public endpoint.
func NewClient(apiKey, baseURL string) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config)
}
