package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsSentinel(t *testing.T) {
	err := Wrapf(ErrInputDirNotFound, "input root %s", ".audio-inputs")

	assert.Equal(t, "input root .audio-inputs: input directory not found", err.Error())
	assert.True(t, Is(err, ErrInputDirNotFound))
	assert.False(t, Is(err, ErrBackendLoad))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
}

func TestIsThroughStdlibWrapping(t *testing.T) {
	err := fmt.Errorf("run: %w", Wrap(fmt.Errorf("no such model"), ErrBackendLoad.Error()))
	assert.True(t, Is(err, ErrBackendLoad))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: ExitOK},
		{name: "missing_input", err: Wrap(ErrInputDirNotFound, "x"), want: ExitFatal},
		{name: "backend_load", err: Wrap(ErrBackendLoad, "x"), want: ExitFatal},
		{name: "unexpected", err: fmt.Errorf("boom"), want: ExitFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "ok", Describe(nil))
	assert.Equal(t, "configuration error", Describe(Wrap(ErrInputDirNotFound, "x")))
	assert.Equal(t, "configuration error", Describe(Wrap(ErrInvalidConfig, "x")))
	assert.Equal(t, "backend error", Describe(Wrap(ErrBackendLoad, "x")))
	assert.Equal(t, "unexpected error", Describe(fmt.Errorf("boom")))
}

func TestRequiredField(t *testing.T) {
	assert.EqualError(t, RequiredField("model"), "model is required")
}

func TestWithCause(t *testing.T) {
	cause := Wrapf(ErrBackendNotFound, "%q", "foo")
	err := WithCause(ErrBackendLoad, cause)

	assert.True(t, Is(err, ErrBackendLoad))
	assert.True(t, Is(err, ErrBackendNotFound))
	assert.Equal(t, `failed to load transcription backend: "foo": backend not found`, err.Error())
	assert.Nil(t, WithCause(ErrBackendLoad, nil))
}
