package app

import (
	"go.uber.org/zap"

	"audio2text/internal/app/api"
	"audio2text/internal/app/api/provider"
	"audio2text/internal/app/converter"
	"audio2text/internal/app/metrics"
	"audio2text/internal/app/output"
	"audio2text/internal/config"
)

// provideLoader resolves the configured backend lazily, after discovery.
func provideLoader(cfg *config.Config) api.Loader {
	return provider.NewNamedLoader(cfg.Backend)
}

func provideWriter(cfg *config.Config, logger *zap.Logger) *output.Writer {
	return output.NewWriter(cfg.OutputFile, logger)
}

func provideRecorder(cfg *config.Config) *metrics.Recorder {
	return metrics.NewRecorder(cfg.Backend, cfg.Model)
}

// provideProgress draws a bar on stderr only for interactive sessions.
func provideProgress(cfg *config.Config) *converter.ProgressManager {
	return converter.NewProgressManager(converter.ProgressConfig{
		Enabled: converter.ShouldShowProgress(cfg.Progress),
	})
}
