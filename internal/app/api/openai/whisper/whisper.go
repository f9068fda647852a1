package whisper

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client      *openai.Client
	model       string
	prompt      string
	temperature float32
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, model, prompt string, temperature float32) *RemoteTranscriber {
	if model == "" {
		model = openai.Whisper1
	}
	return &RemoteTranscriber{
		client:      client,
		model:       model,
		prompt:      prompt,
		temperature: temperature,
	}
}

// Transcribe uploads the file to the transcription endpoint.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, inputFilePath string, language string) (string, error) {
	req := openai.AudioRequest{
		Model:       rt.model,
		FilePath:    inputFilePath,
		Language:    language,
		Prompt:      rt.prompt,
		Temperature: rt.temperature,
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("createTranscription failed: %w", err)
	}

	return resp.Text, nil
}
