package transcribe

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audio2text/internal/app"
	"audio2text/internal/app/errors"
	"audio2text/internal/app/logging"
	"audio2text/internal/config"
)

var Cmd = NewCmd()

// NewCmd builds the transcribe command with its own flag set.
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe every audio file in the input directory",
		Long: `Transcribe every audio file in the input directory

- Walk the input directory for recognized audio files
- Load the transcription backend once
- Append one "### <relative path>" block per file to the output file
- A file that cannot be transcribed gets an "[ERROR: ...]" block instead`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	flags := cmd.Flags()
	flags.StringP("model", "m", config.DefaultModel, "model name or size passed to the backend")
	flags.StringP("device", "d", config.DefaultDevice, "compute device: cpu or cuda")
	flags.StringP("language", "l", config.DefaultLanguage, "language code of the audio")
	flags.BoolP("append", "a", false, "append to the existing output instead of starting over")
	flags.String("input", config.DefaultInputDir, "directory searched for audio files")
	flags.String("output", config.DefaultOutputFile, "aggregated transcription file")
	flags.String("backend", config.DefaultBackend, "transcription backend, see 'a2t backends'")
	flags.String("config", "", "YAML config file; flags override its values")
	flags.String("metrics-file", "", "write run metrics in Prometheus text format to this file")
	flags.Bool("progress", true, "show a progress bar when stderr is a terminal")

	return cmd
}

func run(cmd *cobra.Command, _ []string) (err error) {
	// Flags parsed fine; from here on errors are reported through the log.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, cfgErr := loadConfig(cmd)

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := logging.MustNewStdoutLogger(verbose || (cfg != nil && cfg.Verbose))
	defer func() { _ = logger.Sync() }()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unexpected failure", zap.Any("panic", r), zap.Stack("stacktrace"))
			err = errors.Newf("panic: %v", r)
		}
	}()

	if cfgErr != nil {
		logger.Error("Run failed", zap.String("class", errors.Describe(cfgErr)), zap.Error(cfgErr))
		return cfgErr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := app.InitializeConverter(cfg, logger).Run(ctx)
	if err != nil {
		logger.Error("Run failed", zap.String("class", errors.Describe(err)), zap.Error(err))
		return err
	}

	if summary.Discovered > 0 {
		logger.Info("Transcription written",
			zap.String("output", cfg.OutputFile),
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed),
			zap.Duration("elapsed", summary.Elapsed))
	}
	return nil
}

// loadConfig layers defaults, the optional YAML file and the flags the user
// actually set, then validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.WithCause(errors.ErrInvalidConfig, err)
	}

	stringFlags := map[string]*string{
		"model":        &cfg.Model,
		"device":       &cfg.Device,
		"language":     &cfg.Language,
		"input":        &cfg.InputDir,
		"output":       &cfg.OutputFile,
		"backend":      &cfg.Backend,
		"metrics-file": &cfg.MetricsFile,
	}
	for name, target := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		if *target, err = flags.GetString(name); err != nil {
			return nil, fmt.Errorf("read flag %s: %w", name, err)
		}
	}

	boolFlags := map[string]*bool{
		"append":   &cfg.Append,
		"progress": &cfg.Progress,
		"verbose":  &cfg.Verbose,
	}
	for name, target := range boolFlags {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		if *target, err = flags.GetBool(name); err != nil {
			return nil, fmt.Errorf("read flag %s: %w", name, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
