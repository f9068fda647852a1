package gemini

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"audio2text/internal/app/api"
	"audio2text/internal/app/api/provider"
	"audio2text/internal/app/errors"
	"audio2text/internal/config"
)

// Name is the registry name of this backend.
const Name = "gemini"

func init() {
	provider.RegisterProvider(Name, createGeminiProvider)
}

// createGeminiProvider creates a Gemini client. The model-size selector does
// not apply; the Gemini model comes from the "model" setting.
func createGeminiProvider(ctx context.Context, opts api.LoadOptions) (api.Transcriber, error) {
	apiKey := opts.StringSetting("api_key", os.Getenv(config.EnvGeminiKey))
	if apiKey == "" {
		return nil, errors.Wrapf(errors.ErrMissingAPIKey, "gemini backend needs 'api_key' setting or %s", config.EnvGeminiKey)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL := opts.StringSetting("base_url", ""); baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := opts.StringSetting("model", DefaultModel)
	opts.Log().Debug("Gemini backend ready",
		zap.String("model", model),
		zap.String("ignored_size_selector", opts.Model),
		zap.String("ignored_device", opts.Device))

	return NewTranscriber(client, model), nil
}
