package whisper_server

import (
	"context"
	"os"

	"go.uber.org/zap"

	"audio2text/internal/app/api"
	"audio2text/internal/app/api/provider"
	"audio2text/internal/app/errors"
	"audio2text/internal/config"
)

// Name is the registry name of this backend.
const Name = "whisper_server"

func init() {
	provider.RegisterProvider(Name, createServerProvider)
}

// createServerProvider points at an already running server; the server owns
// the model and device, so both selectors are only logged.
func createServerProvider(ctx context.Context, opts api.LoadOptions) (api.Transcriber, error) {
	baseURL := opts.StringSetting("base_url", os.Getenv(config.EnvWhisperServerURL))
	if baseURL == "" {
		return nil, errors.RequiredField("whisper_server base_url (or " + config.EnvWhisperServerURL + ")")
	}

	headers := make(map[string]string)
	if raw, ok := opts.Settings["headers"].(map[string]interface{}); ok {
		for key, value := range raw {
			if s, ok := value.(string); ok {
				headers[key] = s
			}
		}
	}

	opts.Log().Debug("Using whisper server",
		zap.String("base_url", baseURL),
		zap.String("ignored_model", opts.Model),
		zap.String("ignored_device", opts.Device))

	return NewServerTranscriber(ServerConfig{
		BaseURL:       baseURL,
		InferencePath: opts.StringSetting("inference_path", ""),
		Temperature:   opts.FloatSetting("temperature", 0),
		Headers:       headers,
	}, nil), nil
}
