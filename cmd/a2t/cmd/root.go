package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"audio2text/cmd/a2t/cmd/backends"
	"audio2text/cmd/a2t/cmd/transcribe"
	"audio2text/cmd/a2t/cmd/version"
	"audio2text/internal/app/errors"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "a2t",
	Short: "Batch transcribe a directory of audio files into one text file",
	Long: `Batch transcribe a directory of audio files into one text file.
- Every .wav .mp3 .flac .ogg .m4a file under the input directory is found
- Files are transcribed one by one, in path order
- Each result is appended to the output file under a "### <path>" header`,
	TraverseChildren: true,
}

// Execute runs the command line and exits with the status of the run.
func Execute() {
	err := rootCmd.Execute()
	os.Exit(errors.ExitCode(err))
}

func init() {
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(backends.Cmd)
	rootCmd.AddCommand(version.Cmd)

	// Read by sub-commands through their merged flag set.
	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "verbose output")
}
