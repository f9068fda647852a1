package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateAudioTree creates empty placeholder files under root for every
// forward-slash relative path given.
func CreateAudioTree(t testing.TB, root string, relPaths ...string) {
	t.Helper()
	for _, rel := range relPaths {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0644))
	}
}

// ReadFile returns the content of path, failing the test when unreadable.
func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// BlockHeaders extracts the header paths of an output artifact in order.
func BlockHeaders(content string) []string {
	var headers []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "### ") {
			headers = append(headers, strings.TrimPrefix(line, "### "))
		}
	}
	return headers
}
