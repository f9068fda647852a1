package converter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"audio2text/internal/app/api"
	"audio2text/internal/app/errors"
	"audio2text/internal/app/metrics"
	"audio2text/internal/app/model"
	"audio2text/internal/app/output"
	"audio2text/internal/app/util/files"
	"audio2text/internal/config"
)

// Converter runs one sequential batch: discover, load the backend once, then
// transcribe and write each file in discovery order.
type Converter struct {
	cfg      *config.Config
	logger   *zap.Logger
	loader   api.Loader
	writer   *output.Writer
	metrics  *metrics.Recorder
	progress *ProgressManager

	now func() time.Time
}

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Discovered int
	Succeeded  int
	Failed     int
	// FailedFiles lists the relative paths written as error blocks.
	FailedFiles []string
	Elapsed     time.Duration
}

func NewConverter(cfg *config.Config, logger *zap.Logger, loader api.Loader, writer *output.Writer, recorder *metrics.Recorder, progress *ProgressManager) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		cfg:      cfg,
		logger:   logger,
		loader:   loader,
		writer:   writer,
		metrics:  recorder,
		progress: progress,
		now:      time.Now,
	}
}

// Run executes the batch. A nil error means success, including the case
// where no audio files were found. Per-file failures are written as error
// blocks and counted in the summary; every returned error is fatal.
func (c *Converter) Run(ctx context.Context) (summary Summary, err error) {
	summary.RunID = uuid.NewString()
	logger := c.logger.With(zap.String("run", summary.RunID[:8]))
	start := c.now()

	defer func() {
		summary.Elapsed = c.now().Sub(start)
		c.finishMetrics(logger, summary, err)
	}()

	logger.Info("Starting batch transcription",
		zap.String("input", c.cfg.InputDir),
		zap.String("output", c.cfg.OutputFile),
		zap.String("backend", c.cfg.Backend),
		zap.String("model", c.cfg.Model),
		zap.String("device", c.cfg.Device),
		zap.String("language", c.cfg.Language),
		zap.Bool("append", c.cfg.Append))

	if !files.DirExists(c.cfg.InputDir) {
		return summary, errors.Wrapf(errors.ErrInputDirNotFound, "input root %s", c.cfg.InputDir)
	}

	if err := c.writer.Prepare(c.cfg.Append); err != nil {
		return summary, err
	}

	audioFiles, err := files.FindAudioFiles(c.cfg.InputDir, c.cfg.Extensions)
	if err != nil {
		return summary, err
	}
	summary.Discovered = len(audioFiles)
	if c.metrics != nil {
		c.metrics.ObserveDiscovered(len(audioFiles))
	}

	if len(audioFiles) == 0 {
		logger.Warn("No audio files found", zap.String("input", c.cfg.InputDir))
		return summary, nil
	}
	logger.Info("Discovered audio files", zap.Int("count", len(audioFiles)))

	transcriber, err := c.loadBackend(ctx, logger)
	if err != nil {
		return summary, err
	}

	bar := c.progress.CreateBar(len(audioFiles), "Transcribing")
	defer c.progress.Wait()
	defer bar.Abort()

	for idx, file := range audioFiles {
		if err := ctx.Err(); err != nil {
			return summary, errors.Wrapf(err, "stopped before %s", file.RelPath)
		}

		bar.Start(file.RelPath)
		result, err := c.processFile(ctx, logger, transcriber, idx+1, len(audioFiles), file)
		if err != nil {
			return summary, err
		}

		if result.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed++
			summary.FailedFiles = append(summary.FailedFiles, file.RelPath)
		}
		bar.Increment()
	}

	logger.Info("All files processed",
		zap.Int("files", summary.Discovered),
		zap.Int("failed", summary.Failed),
		zap.String("elapsed", formatSeconds(c.now().Sub(start))))
	if summary.Failed > 0 {
		logger.Warn("Some files were written as error blocks", zap.Strings("files", summary.FailedFiles))
	}
	return summary, nil
}

func (c *Converter) loadBackend(ctx context.Context, logger *zap.Logger) (api.Transcriber, error) {
	loadStart := c.now()
	logger.Info("Loading transcription backend",
		zap.String("backend", c.cfg.Backend),
		zap.String("model", c.cfg.Model),
		zap.String("device", c.cfg.Device))

	transcriber, err := c.loader.Load(ctx, api.LoadOptions{
		Model:    c.cfg.Model,
		Device:   c.cfg.Device,
		Settings: c.cfg.BackendSettings(c.cfg.Backend),
		Logger:   logger,
	})
	if err != nil {
		return nil, errors.WithCause(errors.ErrBackendLoad, err)
	}

	logger.Info("Backend ready", zap.String("elapsed", formatSeconds(c.now().Sub(loadStart))))
	return transcriber, nil
}

func (c *Converter) processFile(ctx context.Context, logger *zap.Logger, transcriber api.Transcriber, idx, total int, file model.AudioFile) (model.Result, error) {
	logger.Info("Processing file",
		zap.String("progress", progressLabel(idx, total)),
		zap.String("file", file.RelPath))
	fileStart := c.now()

	result := api.TranscribeFile(ctx, transcriber, file, c.cfg.Language, logger)
	if err := c.writer.Write(result); err != nil {
		return result, err
	}

	elapsed := c.now().Sub(fileStart)
	if c.metrics != nil {
		c.metrics.ObserveFile(result.Succeeded(), elapsed)
	}
	logger.Info("Finished file",
		zap.String("file", file.RelPath),
		zap.Bool("ok", result.Succeeded()),
		zap.String("elapsed", formatSeconds(elapsed)))
	return result, nil
}

func (c *Converter) finishMetrics(logger *zap.Logger, summary Summary, runErr error) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveRun(summary.Elapsed, runErr == nil, c.now())

	if c.cfg.MetricsFile == "" {
		return
	}
	if err := c.metrics.WriteTextfile(c.cfg.MetricsFile); err != nil {
		logger.Warn("Failed to write metrics file", zap.String("path", c.cfg.MetricsFile), zap.Error(err))
	}
}

func progressLabel(idx, total int) string {
	return fmt.Sprintf("[%d/%d]", idx, total)
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
