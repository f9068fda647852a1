package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults used when neither the config file nor the command line set a value.
const (
	DefaultInputDir   = ".audio-inputs"
	DefaultOutputFile = ".audio-outputs/transcription.txt"
	DefaultBackend    = "whisper_cpp"
	DefaultModel      = "small"
	DefaultDevice     = DeviceCPU
	DefaultLanguage   = "ru"
)

// Compute devices accepted by the backends.
const (
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
)

// DefaultExtensions is the recognized audio extension set.
var DefaultExtensions = []string{".wav", ".mp3", ".flac", ".ogg", ".m4a"}

// Config is the fully resolved configuration of one transcription run.
type Config struct {
	InputDir    string   `yaml:"input_dir" validate:"required"`
	OutputFile  string   `yaml:"output_file" validate:"required"`
	Extensions  []string `yaml:"extensions" validate:"required,min=1,dive,required,startswith=."`
	Backend     string   `yaml:"backend" validate:"required"`
	Model       string   `yaml:"model" validate:"required"`
	Device      string   `yaml:"device" validate:"required,oneof=cpu cuda"`
	Language    string   `yaml:"language" validate:"required,min=2,max=8"`
	Append      bool     `yaml:"append"`
	Verbose     bool     `yaml:"verbose"`
	Progress    bool     `yaml:"progress"`
	MetricsFile string   `yaml:"metrics_file"`

	// Backends holds per-backend settings keyed by backend name,
	// e.g. backends.whisper_cpp.binary_path.
	Backends map[string]map[string]interface{} `yaml:"backends,omitempty"`
}

// Default returns the documented defaults.
func Default() *Config {
	return &Config{
		InputDir:   DefaultInputDir,
		OutputFile: DefaultOutputFile,
		Extensions: append([]string(nil), DefaultExtensions...),
		Backend:    DefaultBackend,
		Model:      DefaultModel,
		Device:     DefaultDevice,
		Language:   DefaultLanguage,
		Progress:   true,
		Backends:   make(map[string]map[string]interface{}),
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(configPath string) (*Config, error) {
	config := Default()
	if configPath == "" {
		return config, nil
	}

	configPath = os.ExpandEnv(configPath)
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.expandEnvironmentVariables()
	return config, nil
}

// BackendSettings returns the settings block of the named backend, never nil.
func (c *Config) BackendSettings(name string) map[string]interface{} {
	if settings, ok := c.Backends[name]; ok && settings != nil {
		return settings
	}
	return map[string]interface{}{}
}

func (c *Config) expandEnvironmentVariables() {
	c.InputDir = os.ExpandEnv(c.InputDir)
	c.OutputFile = os.ExpandEnv(c.OutputFile)
	c.MetricsFile = os.ExpandEnv(c.MetricsFile)

	for _, settings := range c.Backends {
		for key, value := range settings {
			if s, ok := value.(string); ok {
				settings[key] = os.ExpandEnv(s)
			}
		}
	}
}
