package elevenlabs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio2text/internal/app/api"
	"audio2text/internal/app/errors"
	"audio2text/internal/config"
)

func TestTranscribe(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "voice.ogg")
	require.NoError(t, os.WriteFile(audio, []byte("OggS"), 0644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/speech-to-text", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("xi-api-key"))
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, DefaultModel, r.FormValue("model_id"))
		assert.Equal(t, "ru", r.FormValue("language_code"))
		_, _ = w.Write([]byte(`{"text":"  добрый день ","language_code":"rus"}`))
	}))
	defer server.Close()

	text, err := NewTranscriber("key", server.URL+"/v1", "", server.Client()).
		Transcribe(context.Background(), audio, "ru")
	require.NoError(t, err)
	assert.Equal(t, "добрый день", text)
}

func TestStatusError(t *testing.T) {
	assert.NoError(t, statusError(http.StatusOK, nil))
	assert.EqualError(t, statusError(http.StatusUnauthorized, nil), "ElevenLabs API key is invalid or missing")
	assert.EqualError(t, statusError(http.StatusTooManyRequests, nil), "ElevenLabs API rate limit exceeded")
	assert.EqualError(t, statusError(http.StatusBadRequest, []byte("bad\n")), "ElevenLabs API returned status 400: bad")
}

func TestCreateElevenLabsProvider(t *testing.T) {
	t.Setenv(config.EnvElevenLabsKey, "")

	_, err := createElevenLabsProvider(context.Background(), api.LoadOptions{})
	assert.True(t, errors.Is(err, errors.ErrMissingAPIKey))

	transcriber, err := createElevenLabsProvider(context.Background(), api.LoadOptions{
		Settings: map[string]interface{}{"api_key": "k"},
	})
	require.NoError(t, err)
	el := transcriber.(*Transcriber)
	assert.Equal(t, DefaultBaseURL, el.baseURL)
	assert.Equal(t, DefaultModel, el.model)
}
