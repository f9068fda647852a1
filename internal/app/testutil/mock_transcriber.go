package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"audio2text/internal/app/api"
)

// MockTranscriber is a configurable api.Transcriber for tests. Per-file
// responses, errors and panics are keyed by a path suffix such as "b/c.wav".
type MockTranscriber struct {
	mu sync.RWMutex

	DefaultResponse string
	DefaultError    error
	DefaultLatency  time.Duration

	ResponseMap map[string]string
	ErrorMap    map[string]error
	PanicMap    map[string]interface{}

	CallHistory []TranscriptionCall
}

// TranscriptionCall represents a single transcription call for tracking
type TranscriptionCall struct {
	InputFilePath string
	Language      string
	Response      string
	Error         error
}

// NewMockTranscriber creates a MockTranscriber answering "hello" for every file.
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{
		DefaultResponse: "hello",
		ResponseMap:     make(map[string]string),
		ErrorMap:        make(map[string]error),
		PanicMap:        make(map[string]interface{}),
	}
}

// Transcribe implements the api.Transcriber interface
func (m *MockTranscriber) Transcribe(ctx context.Context, inputFilePath string, language string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := TranscriptionCall{InputFilePath: inputFilePath, Language: language}
	defer func() { m.CallHistory = append(m.CallHistory, call) }()

	if v, ok := lookup(m.PanicMap, inputFilePath); ok {
		panic(v)
	}

	if m.DefaultLatency > 0 {
		select {
		case <-time.After(m.DefaultLatency):
		case <-ctx.Done():
			call.Error = ctx.Err()
			return "", call.Error
		}
	}

	if err, ok := lookup(m.ErrorMap, inputFilePath); ok {
		call.Error = err
		return "", err
	}
	if m.DefaultError != nil {
		call.Error = m.DefaultError
		return "", m.DefaultError
	}

	call.Response = m.DefaultResponse
	if response, ok := lookup(m.ResponseMap, inputFilePath); ok {
		call.Response = response
	}
	return call.Response, nil
}

// WithDefaultResponse sets the default response text
func (m *MockTranscriber) WithDefaultResponse(response string) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultResponse = response
	return m
}

// WithDefaultError sets the default error to return
func (m *MockTranscriber) WithDefaultError(err error) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultError = err
	return m
}

// SetResponseForFile sets a specific response for a given file path suffix
func (m *MockTranscriber) SetResponseForFile(pathSuffix string, response string) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResponseMap[pathSuffix] = response
	return m
}

// SetErrorForFile sets a specific error for a given file path suffix
func (m *MockTranscriber) SetErrorForFile(pathSuffix string, err error) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorMap[pathSuffix] = err
	return m
}

// SetPanicForFile makes Transcribe panic with v for a given file path suffix
func (m *MockTranscriber) SetPanicForFile(pathSuffix string, v interface{}) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PanicMap[pathSuffix] = v
	return m
}

// CallCount returns the number of Transcribe calls so far
func (m *MockTranscriber) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.CallHistory)
}

// CalledPaths returns the input paths in call order
func (m *MockTranscriber) CalledPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, len(m.CallHistory))
	for i, c := range m.CallHistory {
		paths[i] = c.InputFilePath
	}
	return paths
}

func lookup[V any](m map[string]V, inputFilePath string) (V, bool) {
	slashed := filepath.ToSlash(inputFilePath)
	for suffix, v := range m {
		if slashed == suffix || strings.HasSuffix(slashed, "/"+suffix) {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// MockLoader is a testify mock of api.Loader.
type MockLoader struct {
	mock.Mock
}

// Load implements the api.Loader interface
func (m *MockLoader) Load(ctx context.Context, opts api.LoadOptions) (api.Transcriber, error) {
	args := m.Called(ctx, opts)
	if t, ok := args.Get(0).(api.Transcriber); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

// LoaderReturning builds a MockLoader that hands out t for any options.
func LoaderReturning(t api.Transcriber) *MockLoader {
	loader := &MockLoader{}
	loader.On("Load", mock.Anything, mock.Anything).Return(t, nil)
	return loader
}

// LoaderFailing builds a MockLoader whose Load always returns err.
func LoaderFailing(err error) *MockLoader {
	loader := &MockLoader{}
	loader.On("Load", mock.Anything, mock.Anything).Return(nil, err)
	return loader
}
