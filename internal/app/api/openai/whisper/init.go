package whisper

import (
	"context"
	"os"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"audio2text/internal/app/api"
	openaiclient "audio2text/internal/app/api/openai"
	"audio2text/internal/app/api/provider"
	"audio2text/internal/app/errors"
	"audio2text/internal/config"
)

// Name is the registry name of this backend.
const Name = "openai"

// localModelSizes are the whisper size selectors that the hosted API serves
// with its single whisper model.
var localModelSizes = map[string]bool{
	"tiny": true, "tiny.en": true,
	"base": true, "base.en": true,
	"small": true, "small.en": true,
	"medium": true, "medium.en": true,
	"large": true, "large-v1": true, "large-v2": true, "large-v3": true,
	"turbo": true, "large-v3-turbo": true,
}

func init() {
	provider.RegisterProvider(Name, createOpenAIProvider)
}

// createOpenAIProvider creates an OpenAI Whisper provider from configuration
func createOpenAIProvider(ctx context.Context, opts api.LoadOptions) (api.Transcriber, error) {
	apiKey := opts.StringSetting("api_key", os.Getenv(config.EnvOpenAIKey))
	if apiKey == "" {
		return nil, errors.Wrapf(errors.ErrMissingAPIKey, "openai backend needs 'api_key' setting or %s", config.EnvOpenAIKey)
	}

	if opts.Device != "" && opts.Device != config.DeviceCPU {
		opts.Log().Debug("Device selector is ignored by the openai backend", zap.String("device", opts.Device))
	}

	client := openaiclient.NewClient(apiKey, opts.StringSetting("base_url", ""))
	return NewRemoteTranscriber(
		client,
		ResolveModel(opts.Model),
		opts.StringSetting("prompt", ""),
		float32(opts.FloatSetting("temperature", 0)),
	), nil
}

// ResolveModel maps local whisper size selectors onto the hosted model and
// passes any other model name through.
func ResolveModel(selector string) string {
	if selector == "" || localModelSizes[selector] {
		return openai.Whisper1
	}
	return selector
}
