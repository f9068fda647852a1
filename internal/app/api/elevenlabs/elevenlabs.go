// Package elevenlabs transcribes through the ElevenLabs speech-to-text API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultBaseURL = "https://api.elevenlabs.io/v1"
	DefaultModel   = "scribe_v1"
)

type sttResponse struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code,omitempty"`
}

// Transcriber uploads each file to the speech-to-text endpoint.
type Transcriber struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewTranscriber(apiKey, baseURL, model string, client *http.Client) *Transcriber {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Transcriber{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  client,
	}
}

func (t *Transcriber) Transcribe(ctx context.Context, inputFilePath string, language string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	file, err := os.Open(inputFilePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(inputFilePath))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}
	if err := writer.WriteField("model_id", t.model); err != nil {
		return "", fmt.Errorf("failed to add model field: %w", err)
	}
	if language != "" {
		if err := writer.WriteField("language_code", language); err != nil {
			return "", fmt.Errorf("failed to add language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/speech-to-text", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("xi-api-key", t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if err := statusError(resp.StatusCode, data); err != nil {
		return "", err
	}

	var parsed sttResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return strings.TrimSpace(parsed.Text), nil
}

func statusError(status int, body []byte) error {
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return fmt.Errorf("ElevenLabs API key is invalid or missing")
	case http.StatusTooManyRequests:
		return fmt.Errorf("ElevenLabs API rate limit exceeded")
	case http.StatusRequestEntityTooLarge:
		return fmt.Errorf("audio file is too large")
	default:
		return fmt.Errorf("ElevenLabs API returned status %d: %s", status, strings.TrimSpace(string(body)))
	}
}
