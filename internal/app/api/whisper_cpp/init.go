package whisper_cpp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"audio2text/internal/app/api"
	"audio2text/internal/app/api/provider"
	"audio2text/internal/app/util/files"
	"audio2text/internal/config"
)

// Name is the registry name of this backend.
const Name = "whisper_cpp"

func init() {
	provider.RegisterProvider(Name, createWhisperCppProvider)
}

// createWhisperCppProvider resolves the binary and the ggml model for the
// requested size and device. Settings win over environment variables.
func createWhisperCppProvider(ctx context.Context, opts api.LoadOptions) (api.Transcriber, error) {
	binaryPath := opts.StringSetting("binary_path", os.Getenv(config.EnvWhisperCppBinary))
	if binaryPath == "" {
		return nil, fmt.Errorf("whisper_cpp backend requires 'binary_path' setting or %s", config.EnvWhisperCppBinary)
	}
	resolvedBinary, err := exec.LookPath(binaryPath)
	if err != nil {
		return nil, fmt.Errorf("whisper.cpp binary not usable: %w", err)
	}

	modelPath := ModelPath(opts)
	if !files.FileExists(modelPath) {
		return nil, fmt.Errorf("model %q not found at %s", opts.Model, modelPath)
	}

	var useGPU bool
	switch opts.Device {
	case config.DeviceCPU, "":
	case config.DeviceCUDA:
		useGPU = true
	default:
		return nil, fmt.Errorf("unsupported device %q", opts.Device)
	}

	return NewLocalTranscriber(LocalProviderConfig{
		BinaryPath: resolvedBinary,
		ModelPath:  modelPath,
		UseGPU:     useGPU,
		Threads:    opts.IntSetting("threads", 0),
		Prompt:     opts.StringSetting("prompt", ""),
		TempDir:    opts.StringSetting("temp_dir", ""),
	}, opts.Log()), nil
}

// ModelPath returns the ggml model file for opts: an explicit model_path
// setting, or ggml-<model>.bin inside the model directory.
func ModelPath(opts api.LoadOptions) string {
	if path := opts.StringSetting("model_path", os.Getenv(config.EnvWhisperCppModel)); path != "" {
		return path
	}
	modelDir := opts.StringSetting("model_dir", config.GetEnvOrDefault(config.EnvWhisperCppModelDir, "models"))
	return filepath.Join(modelDir, "ggml-"+opts.Model+".bin")
}
