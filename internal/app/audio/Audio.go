package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"audio2text/internal/app/model"
)

// GetAudioDuration returns the duration in seconds reported by ffprobe.
func GetAudioDuration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, err
	}
	return parseDuration(output)
}

func parseDuration(output []byte) (float64, error) {
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe duration %q: %w", strings.TrimSpace(string(output)), err)
	}
	return duration, nil
}

// Is16kHzWavFile reports whether the file already holds 16 kHz PCM audio,
// the only input whisper.cpp reads directly.
func Is16kHzWavFile(ctx context.Context, filePath string) (bool, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "quiet", "-print_format", "json", "-show_streams", filePath)
	output, err := cmd.Output()
	if err != nil {
		return false, err
	}
	return is16kHzPCM(output)
}

func is16kHzPCM(output []byte) (bool, error) {
	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal(output, &probeOutput); err != nil {
		return false, err
	}

	for _, stream := range probeOutput.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" && stream.SampleRate == 16000 {
			return true, nil
		}
	}

	return false, nil
}

// ConvertTo16kHzWav writes a 16 kHz mono PCM copy of inputAudioFilePath to
// outputWavPath, overwriting it.
func ConvertTo16kHzWav(ctx context.Context, inputAudioFilePath, outputWavPath string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", ConvertArgs(inputAudioFilePath, outputWavPath)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("FFmpeg error: %v, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// ConvertArgs builds the ffmpeg arguments used by ConvertTo16kHzWav.
func ConvertArgs(inputAudioFilePath, outputWavPath string) []string {
	return []string{
		"-nostdin", "-y",
		"-i", inputAudioFilePath,
		"-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1",
		outputWavPath,
	}
}
