// Package stub provides a backend that returns fixed text without running any
// model. It is useful for dry runs of a directory layout.
package stub

import (
	"context"

	"audio2text/internal/app/api"
	"audio2text/internal/app/api/provider"
)

// Name is the registry name of this backend.
const Name = "stub"

// DefaultText is returned when no "text" setting is configured.
const DefaultText = "hello"

func init() {
	provider.RegisterProvider(Name, func(ctx context.Context, opts api.LoadOptions) (api.Transcriber, error) {
		return Transcriber{Text: opts.StringSetting("text", DefaultText)}, nil
	})
}

// Transcriber returns Text for every file.
type Transcriber struct {
	Text string
}

// Transcribe implements api.Transcriber.
func (s Transcriber) Transcribe(ctx context.Context, inputFilePath string, language string) (string, error) {
	return s.Text, nil
}
