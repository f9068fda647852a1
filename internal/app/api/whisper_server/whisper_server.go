package whisper_server

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

// ServerConfig describes a running whisper.cpp server.
type ServerConfig struct {
	BaseURL       string
	InferencePath string
	Temperature   float64
	Headers       map[string]string
}

type inferenceResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// ServerTranscriber sends each file to the server's inference endpoint.
type ServerTranscriber struct {
	config ServerConfig
	client *http.Client
}

// NewServerTranscriber creates a transcriber for the server at config.BaseURL.
// The client has no timeout; cancellation comes from the context.
func NewServerTranscriber(config ServerConfig, client *http.Client) *ServerTranscriber {
	if config.InferencePath == "" {
		config.InferencePath = "/inference"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if client == nil {
		client = &http.Client{}
	}
	return &ServerTranscriber{config: config, client: client}
}

func (s *ServerTranscriber) Transcribe(ctx context.Context, inputFilePath string, language string) (string, error) {
	body, contentType, err := s.multipartForm(inputFilePath, language)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+s.config.InferencePath, body)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	for key, value := range s.config.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed inferenceResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("server error: %s", parsed.Error)
	}
	return strings.TrimSpace(parsed.Text), nil
}

func (s *ServerTranscriber) multipartForm(inputFilePath, language string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	file, err := os.Open(inputFilePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(inputFilePath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %w", err)
	}

	fields := [][2]string{
		{"response_format", "json"},
		{"temperature", fmt.Sprintf("%.2f", s.config.Temperature)},
	}
	if language != "" {
		fields = append(fields, [2]string{"language", language})
	}
	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", field[0], err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}
