package output

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"audio2text/internal/app/errors"
	"audio2text/internal/app/model"
	"audio2text/internal/app/util/files"
)

// HeaderPrefix starts the header line of every block.
const HeaderPrefix = "### "

// FormatBlock renders one block: header with the forward-slash relative path,
// the trimmed text and a blank separator line.
func FormatBlock(relPath, text string) string {
	var b strings.Builder
	b.WriteString(HeaderPrefix)
	b.WriteString(filepath.ToSlash(relPath))
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(text))
	b.WriteString("\n\n")
	return b.String()
}

// Prepare creates the artifact's directory and, unless appendMode is set,
// removes a previous artifact so the run starts from an empty file.
func Prepare(path string, appendMode bool) error {
	if err := files.EnsureDir(filepath.Dir(path)); err != nil {
		return errors.Wrap(errors.ErrFileWriteFailed, err.Error())
	}
	if appendMode {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove previous output %s", path)
	}
	return nil
}

// AppendBlock writes one block in its own open-write-close cycle, creating the
// artifact when missing.
func AppendBlock(path, relPath, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open output %s", path)
	}

	if _, err := f.WriteString(FormatBlock(relPath, text)); err != nil {
		f.Close()
		return errors.Wrapf(err, "write block %s", relPath)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close output %s", path)
	}
	return nil
}

// Writer appends result blocks to one output artifact.
type Writer struct {
	path   string
	logger *zap.Logger
}

// NewWriter creates a Writer for the artifact at path.
func NewWriter(path string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{path: path, logger: logger}
}

// Path returns the artifact location.
func (w *Writer) Path() string {
	return w.path
}

// Prepare readies the artifact for a fresh or continuation run.
func (w *Writer) Prepare(appendMode bool) error {
	existed := files.FileExists(w.path)
	if err := Prepare(w.path, appendMode); err != nil {
		return err
	}

	switch {
	case appendMode && existed:
		w.logger.Info("Appending to existing output", zap.String("output", w.path))
	case existed:
		w.logger.Info("Removed previous output", zap.String("output", w.path))
	}
	return nil
}

// Write appends the block for one result.
func (w *Writer) Write(result model.Result) error {
	if err := AppendBlock(w.path, result.File.RelPath, result.BlockText()); err != nil {
		return errors.Wrap(errors.ErrFileWriteFailed, err.Error())
	}
	return nil
}
