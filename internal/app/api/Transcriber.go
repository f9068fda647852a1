package api

import (
	"context"

	"go.uber.org/zap"
)

// Transcriber is a loaded speech-to-text backend.
type Transcriber interface {
	// Transcribe returns the recognized text of the audio file at
	// inputFilePath. language is a hint such as "ru" or "en".
	Transcribe(ctx context.Context, inputFilePath string, language string) (string, error)
}

// LoadOptions selects what a Loader acquires.
type LoadOptions struct {
	// Model is the model-size selector, e.g. "tiny", "small", "large-v3".
	Model string
	// Device is the compute device, "cpu" or "cuda".
	Device string
	// Settings are backend specific values from the config file.
	Settings map[string]interface{}
	Logger   *zap.Logger
}

// Loader acquires a ready-to-use Transcriber. Load may block for a long time
// while the backend initializes.
type Loader interface {
	Load(ctx context.Context, opts LoadOptions) (Transcriber, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, opts LoadOptions) (Transcriber, error)

// Load calls f(ctx, opts).
func (f LoaderFunc) Load(ctx context.Context, opts LoadOptions) (Transcriber, error) {
	return f(ctx, opts)
}

// StringSetting reads a string setting, falling back to def when absent or empty.
func (o LoadOptions) StringSetting(key, def string) string {
	if v, ok := o.Settings[key].(string); ok && v != "" {
		return v
	}
	return def
}

// IntSetting reads an integer setting; YAML and JSON decoders differ in the
// numeric type they produce.
func (o LoadOptions) IntSetting(key string, def int) int {
	switch v := o.Settings[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// FloatSetting reads a numeric setting as float64.
func (o LoadOptions) FloatSetting(key string, def float64) float64 {
	switch v := o.Settings[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// Log returns the configured logger or a no-op one.
func (o LoadOptions) Log() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
