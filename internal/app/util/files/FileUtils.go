package files

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"audio2text/internal/app/errors"
	"audio2text/internal/app/model"
)

// FindAudioFiles walks root recursively and returns every regular file whose
// lower-cased extension is in exts, ordered by the forward-slash path relative
// to root. Directory symlinks are not descended into.
func FindAudioFiles(root string, exts []string) ([]model.AudioFile, error) {
	absRoot, err := GetAbsolutePath(root)
	if err != nil {
		return nil, err
	}
	if !DirExists(absRoot) {
		return nil, errors.Wrapf(errors.ErrInputDirNotFound, "input root %s", root)
	}
	// WalkDir does not descend into a symlinked root.
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}

	recognized := lo.SliceToMap(exts, func(ext string) (string, struct{}) {
		return strings.ToLower(ext), struct{}{}
	})

	var audioFiles []model.AudioFile
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := recognized[audioExt(d.Name())]; !ok {
			return nil
		}
		if !isRegularFile(path, d) {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		audioFiles = append(audioFiles, model.AudioFile{
			AbsPath: path,
			RelPath: filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}

	sort.Slice(audioFiles, func(i, j int) bool {
		return audioFiles[i].RelPath < audioFiles[j].RelPath
	})
	return audioFiles, nil
}

// audioExt returns the lower-cased extension of name. A name that is only an
// extension, such as ".mp3", has none.
func audioExt(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return strings.ToLower(ext)
}

// isRegularFile follows a file symlink to check its target.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists reports whether path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}
	return nil
}

// GetAbsolutePath resolves path against the working directory.
func GetAbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", path)
	}
	return abs, nil
}

// ReadOutputFile reads the specified output file and returns its text content.
func ReadOutputFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(content)), nil
}
