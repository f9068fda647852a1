package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"audio2text/internal/app/errors"
	"audio2text/internal/app/model"
)

// TranscribeFile transcribes one discovered file and never fails: a missing
// file, a backend error or a backend panic all come back as a failure Result
// so the batch can continue with the next file.
func TranscribeFile(ctx context.Context, t Transcriber, file model.AudioFile, language string, logger *zap.Logger) (result model.Result) {
	absPath, err := filepath.Abs(file.AbsPath)
	if err != nil {
		absPath = file.AbsPath
	}

	if _, err := os.Stat(absPath); err != nil {
		logger.Error("File does not exist", zap.String("path", absPath), zap.Error(err))
		return model.Failure(file, errors.Newf("File does not exist: %s", absPath))
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Transcription panicked",
				zap.String("path", absPath),
				zap.Any("panic", r),
				zap.Stack("stacktrace"))
			result = model.Failure(file, fmt.Errorf("backend panic: %v", r))
		}
	}()

	logger.Debug("Transcribing file", zap.String("path", absPath), zap.String("language", language))

	text, err := t.Transcribe(ctx, absPath, language)
	if err != nil {
		logger.Error("Transcription failed", zap.String("path", absPath), zap.Error(err))
		return model.Failure(file, err)
	}

	return model.Success(file, text)
}
