package elevenlabs

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
const Name = "elevenlabs"

func init() {
	provider.RegisterProvider(Name, createElevenLabsProvider)
}

func createElevenLabsProvider(ctx context.Context, opts api.LoadOptions) (api.Transcriber, error) {
	apiKey := opts.StringSetting("api_key", os.Getenv(config.EnvElevenLabsKey))
	if apiKey == "" {
		return nil, errors.Wrapf(errors.ErrMissingAPIKey, "elevenlabs backend needs 'api_key' setting or %s", config.EnvElevenLabsKey)
	}

	model := opts.StringSetting("model", DefaultModel)
	opts.Log().Debug("ElevenLabs backend ready",
		zap.String("model", model),
		zap.String("ignored_size_selector", opts.Model),
		zap.String("ignored_device", opts.Device))

	return NewTranscriber(apiKey, opts.StringSetting("base_url", ""), model, nil), nil
}
