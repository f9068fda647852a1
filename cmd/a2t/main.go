package main

import (
	"fmt"
	"os"

	"audio2text/cmd/a2t/cmd"
	"audio2text/internal/config"

	// Backends register themselves with the provider registry.
	_ "audio2text/internal/app/api/elevenlabs"
	_ "audio2text/internal/app/api/gemini"
	_ "audio2text/internal/app/api/openai/whisper"
	_ "audio2text/internal/app/api/stub"
	_ "audio2text/internal/app/api/whisper_cpp"
	_ "audio2text/internal/app/api/whisper_server"
)

func main() {
	// Variables may also be set system-wide, so a missing .env is fine.
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	// Malformed keys only matter for the remote backends; they fail at load.
	if _, err := config.GetAPIKeys(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	cmd.Execute()
}
