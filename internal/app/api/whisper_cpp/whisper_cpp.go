package whisper_cpp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"audio2text/internal/app/audio"
	"audio2text/internal/app/util/files"
)

// LocalProviderConfig represents configuration specific to local whisper.cpp provider
type LocalProviderConfig struct {
	BinaryPath string
	ModelPath  string
	UseGPU     bool
	Threads    int
	Prompt     string
	TempDir    string
}

// LocalTranscriber implements local transcription, using local binary commands.
type LocalTranscriber struct {
	config LocalProviderConfig
	logger *zap.Logger

	// probe, convert and duration are swapped in tests to avoid ffmpeg.
	probe    func(ctx context.Context, path string) (bool, error)
	convert  func(ctx context.Context, in, out string) error
	duration func(ctx context.Context, path string) (float64, error)
}

// NewLocalTranscriber creates a new instance of LocalTranscriber.
func NewLocalTranscriber(config LocalProviderConfig, logger *zap.Logger) *LocalTranscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalTranscriber{
		config:   config,
		logger:   logger,
		probe:    audio.Is16kHzWavFile,
		convert:  audio.ConvertTo16kHzWav,
		duration: audio.GetAudioDuration,
	}
}

// Transcribe runs the whisper.cpp binary on inputFilePath and returns the text
// it writes. Inputs that are not 16 kHz PCM wav are converted into a scratch
// directory first; nothing is written next to the input.
func (lt *LocalTranscriber) Transcribe(ctx context.Context, inputFilePath string, language string) (string, error) {
	workDir, err := os.MkdirTemp(lt.config.TempDir, "a2t-whisper-*")
	if err != nil {
		return "", fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	wavPath, err := lt.prepareInput(ctx, inputFilePath, workDir)
	if err != nil {
		return "", err
	}

	outputBase := filepath.Join(workDir, "transcript")
	args := lt.buildArgs(wavPath, outputBase, language)

	command := exec.CommandContext(ctx, lt.config.BinaryPath, args...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	lt.logger.Debug("Running whisper.cpp",
		zap.String("binary", lt.config.BinaryPath),
		zap.String("args", strings.Join(args, " ")))

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("command execution error: %v, stderr: %s", err, lastLines(stderr.String(), 5))
	}

	output, err := files.ReadOutputFile(outputBase + ".txt")
	if err != nil {
		return "", fmt.Errorf("failed to read output file: %v", err)
	}
	return output, nil
}

func (lt *LocalTranscriber) prepareInput(ctx context.Context, inputFilePath, workDir string) (string, error) {
	if lt.logger.Core().Enabled(zap.DebugLevel) {
		if seconds, err := lt.duration(ctx, inputFilePath); err == nil {
			lt.logger.Debug("Audio length", zap.String("path", inputFilePath), zap.Float64("seconds", seconds))
		}
	}

	is16kHzWav, err := lt.probe(ctx, inputFilePath)
	if err != nil {
		return "", fmt.Errorf("error checking input file: %v", err)
	}
	if is16kHzWav {
		return inputFilePath, nil
	}

	wavPath := filepath.Join(workDir, "input.wav")
	lt.logger.Debug("Converting input to 16kHz WAV", zap.String("path", inputFilePath))
	if err := lt.convert(ctx, inputFilePath, wavPath); err != nil {
		return "", fmt.Errorf("error converting input file: %v", err)
	}
	return wavPath, nil
}

func (lt *LocalTranscriber) buildArgs(wavPath, outputBase, language string) []string {
	args := []string{
		"-m", lt.config.ModelPath,
		"-l", language,
		"-otxt",
		"-of", outputBase,
		"-np",
	}
	if !lt.config.UseGPU {
		args = append(args, "-ng")
	}
	if lt.config.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(lt.config.Threads))
	}
	if lt.config.Prompt != "" {
		args = append(args, "--prompt", lt.config.Prompt)
	}
	return append(args, "-f", wavPath)
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
