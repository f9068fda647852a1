package gemini

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model setting is given.
const DefaultModel = "gemini-2.0-flash"

var mimeTypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mp3",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".m4a":  "audio/aac",
	".aac":  "audio/aac",
	".aiff": "audio/aiff",
}

// Transcriber sends audio inline to a Gemini model with a verbatim
// transcription instruction.
type Transcriber struct {
	client *genai.Client
	model  string
}

// NewTranscriber wraps a genai client.
func NewTranscriber(client *genai.Client, model string) *Transcriber {
	if model == "" {
		model = DefaultModel
	}
	return &Transcriber{client: client, model: model}
}

// Transcribe implements api.Transcriber.
func (g *Transcriber) Transcribe(ctx context.Context, inputFilePath string, language string) (string, error) {
	mimeType, err := MimeType(inputFilePath)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(inputFilePath)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(Prompt(language)),
			genai.NewPartFromBytes(data, mimeType),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return "", fmt.Errorf("generateContent failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}

// MimeType returns the inline data MIME type for an audio file.
func MimeType(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if mimeType, ok := mimeTypes[ext]; ok {
		return mimeType, nil
	}
	return "", fmt.Errorf("unsupported audio format for gemini: %q", ext)
}

// Prompt is the instruction sent alongside the audio.
func Prompt(language string) string {
	return fmt.Sprintf("Transcribe this audio verbatim. The speech is in language %q (ISO 639-1). "+
		"Return only the transcription text without timestamps, speaker labels or commentary.", language)
}
