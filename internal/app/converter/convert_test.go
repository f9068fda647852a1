package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"audio2text/internal/app/api"
	"audio2text/internal/app/errors"
	"audio2text/internal/app/metrics"
	"audio2text/internal/app/output"
	apptest "audio2text/internal/app/testutil"
	"audio2text/internal/config"
)

type harness struct {
	cfg      *config.Config
	logs     *observer.ObservedLogs
	recorder *metrics.Recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.InputDir = filepath.Join(root, "in")
	cfg.OutputFile = filepath.Join(root, "out", "transcription.txt")
	cfg.Backend = "stub"
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0755))

	return &harness{
		cfg:      cfg,
		recorder: metrics.NewRecorder(cfg.Backend, cfg.Model),
	}
}

func (h *harness) converter(loader api.Loader) *Converter {
	core, logs := observer.New(zapcore.DebugLevel)
	h.logs = logs
	logger := zap.New(core)
	return NewConverter(h.cfg, logger, loader, output.NewWriter(h.cfg.OutputFile, logger), h.recorder,
		NewProgressManager(ProgressConfig{Enabled: false}))
}

func (h *harness) output(t *testing.T) string {
	return apptest.ReadFile(t, h.cfg.OutputFile)
}

func TestRun_WritesBlocksInDiscoveryOrder(t *testing.T) {
	h := newHarness(t)
	apptest.CreateAudioTree(t, h.cfg.InputDir, "a.mp3", "b/c.wav", "z.txt")
	transcriber := apptest.NewMockTranscriber()

	summary, err := h.converter(apptest.LoaderReturning(transcriber)).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "### a.mp3\nhello\n\n### b/c.wav\nhello\n\n", h.output(t))
	assert.Equal(t, 2, summary.Discovered)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Zero(t, summary.Failed)
	assert.NotEmpty(t, summary.RunID)

	require.Equal(t, 2, transcriber.CallCount())
	for _, call := range transcriber.CallHistory {
		assert.True(t, filepath.IsAbs(call.InputFilePath))
		assert.Equal(t, config.DefaultLanguage, call.Language)
	}
}

func TestRun_LoadsBackendOnceWithConfiguredOptions(t *testing.T) {
	h := newHarness(t)
	h.cfg.Model = "medium"
	h.cfg.Device = config.DeviceCUDA
	h.cfg.Backends = map[string]map[string]interface{}{"stub": {"text": "x"}}
	apptest.CreateAudioTree(t, h.cfg.InputDir, "one.wav", "two.wav", "three.wav")

	loader := &apptest.MockLoader{}
	loader.On("Load", mock.Anything, mock.MatchedBy(func(opts api.LoadOptions) bool {
		return opts.Model == "medium" && opts.Device == config.DeviceCUDA && opts.Settings["text"] == "x"
	})).Return(apptest.NewMockTranscriber(), nil).Once()

	_, err := h.converter(loader).Run(context.Background())

	require.NoError(t, err)
	loader.AssertExpectations(t)
	loader.AssertNumberOfCalls(t, "Load", 1)
}

func TestRun_FreshRunReplacesPreviousOutput(t *testing.T) {
	h := newHarness(t)
	apptest.CreateAudioTree(t, h.cfg.InputDir, "a.wav")
	require.NoError(t, os.MkdirAll(filepath.Dir(h.cfg.OutputFile), 0755))
	require.NoError(t, os.WriteFile(h.cfg.OutputFile, []byte("### old.wav\nresidue\n\n"), 0644))

	_, err := h.converter(apptest.LoaderReturning(apptest.NewMockTranscriber())).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "### a.wav\nhello\n\n", h.output(t))
}

func TestRun_AppendKeepsPreviousBlocks(t *testing.T) {
	h := newHarness(t)
	apptest.CreateAudioTree(t, h.cfg.InputDir, "a.wav", "b.wav")
	loader := apptest.LoaderReturning(apptest.NewMockTranscriber())

	_, err := h.converter(loader).Run(context.Background())
	require.NoError(t, err)

	h.cfg.Append = true
	apptest.CreateAudioTree(t, h.cfg.InputDir, "c.wav")
	_, err = h.converter(loader).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"a.wav", "b.wav", "a.wav", "b.wav", "c.wav"},
		apptest.BlockHeaders(h.output(t)))
}

func TestRun_MissingInputRootIsFatalAndLeavesOutputAlone(t *testing.T) {
	h := newHarness(t)
	h.cfg.InputDir = filepath.Join(t.TempDir(), "absent")
	loader := &apptest.MockLoader{}

	_, err := h.converter(loader).Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInputDirNotFound))
	assert.Equal(t, errors.ExitFatal, errors.ExitCode(err))
	assert.Equal(t, "configuration error", errors.Describe(err))
	assert.NoFileExists(t, h.cfg.OutputFile)
	loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestRun_MissingInputRootKeepsExistingOutput(t *testing.T) {
	h := newHarness(t)
	h.cfg.InputDir = filepath.Join(t.TempDir(), "absent")
	require.NoError(t, os.MkdirAll(filepath.Dir(h.cfg.OutputFile), 0755))
	require.NoError(t, os.WriteFile(h.cfg.OutputFile, []byte("keep"), 0644))

	_, err := h.converter(&apptest.MockLoader{}).Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, "keep", h.output(t))
}

func TestRun_EmptyInputWarnsAndSucceeds(t *testing.T) {
	h := newHarness(t)
	apptest.CreateAudioTree(t, h.cfg.InputDir, "notes.txt")
	loader := &apptest.MockLoader{}

	summary, err := h.converter(loader).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, errors.ExitOK, errors.ExitCode(err))
	assert.Zero(t, summary.Discovered)
	loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)

	warnings := h.logs.FilterMessage("No audio files found").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, zapcore.WarnLevel, warnings[0].Level)
}

func TestRun_BackendLoadFailureIsFatal(t *testing.T) {
	h := newHarness(t)
	apptest.CreateAudioTree(t, h.cfg.InputDir, "a.wav")

	_, err := h.converter(apptest.LoaderFailing(fmt.Errorf("model file missing"))).Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBackendLoad))
	assert.Contains(t, err.Error(), "model file missing")
	assert.Equal(t, "backend error", errors.Describe(err))
	assert.Equal(t, errors.ExitFatal, errors.ExitCode(err))
	assert.NoFileExists(t, h.cfg.OutputFile)
}

func TestRun_PerFileFailureBecomesErrorBlock(t *testing.T) {
	h := newHarness(t)
	apptest.CreateAudioTree(t, h.cfg.InputDir, "a.wav", "b.wav", "c.wav")
	transcriber := apptest.NewMockTranscriber().
		SetErrorForFile("b.wav", fmt.Errorf("decoder crashed")).
		SetResponseForFile("c.wav", "  world \n")

	summary, err := h.converter(apptest.LoaderReturning(transcriber)).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t,
		"### a.wav\nhello\n\n### b.wav\n[ERROR: decoder crashed]\n\n### c.wav\nworld\n\n",
		h.output(t))
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, []string{"b.wav"}, summary.FailedFiles)
}

func TestRun_BackendPanicIsIsolated(t *testing.T) {
	h := newHarness(t)
	apptest.CreateAudioTree(t, h.cfg.InputDir, "a.wav", "b.wav")
	transcriber := apptest.NewMockTranscriber().SetPanicForFile("a.wav", "boom")

	summary, err := h.converter(apptest.LoaderReturning(transcriber)).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a.wav", "b.wav"}, apptest.BlockHeaders(h.output(t)))
	assert.Contains(t, h.output(t), "[ERROR: backend panic: boom]")
	assert.Equal(t, 1, summary.Failed)
}

// vanishingTranscriber deletes a file the first time it is called.
type vanishingTranscriber struct {
	*apptest.MockTranscriber
	victim string
}

func (v *vanishingTranscriber) Transcribe(ctx context.Context, path, language string) (string, error) {
	if v.victim != "" {
		_ = os.Remove(v.victim)
		v.victim = ""
	}
	return v.MockTranscriber.Transcribe(ctx, path, language)
}

func TestRun_FileRemovedAfterDiscovery(t *testing.T) {
	h := newHarness(t)
	apptest.CreateAudioTree(t, h.cfg.InputDir, "a.wav", "b.wav")
	transcriber := &vanishingTranscriber{
		MockTranscriber: apptest.NewMockTranscriber(),
		victim:          filepath.Join(h.cfg.InputDir, "b.wav"),
	}

	summary, err := h.converter(apptest.LoaderReturning(transcriber)).Run(context.Background())

	require.NoError(t, err)
	content := h.output(t)
	assert.True(t, strings.HasPrefix(content, "### a.wav\nhello\n\n### b.wav\n[ERROR: File does not exist: "))
	assert.Equal(t, 1, transcriber.CallCount(), "backend is not called for the missing file")
	assert.Equal(t, 1, summary.Failed)
}

func TestRun_CancelledContextStopsBeforeNextFile(t *testing.T) {
	h := newHarness(t)
	apptest.CreateAudioTree(t, h.cfg.InputDir, "a.wav", "b.wav")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.converter(apptest.LoaderReturning(apptest.NewMockTranscriber())).Run(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, "unexpected error", errors.Describe(err))
	assert.NoFileExists(t, h.cfg.OutputFile)
}

func TestRun_LogsProgressAndDurations(t *testing.T) {
	h := newHarness(t)
	apptest.CreateAudioTree(t, h.cfg.InputDir, "a.wav", "b/c.wav")

	_, err := h.converter(apptest.LoaderReturning(apptest.NewMockTranscriber())).Run(context.Background())
	require.NoError(t, err)

	processing := h.logs.FilterMessage("Processing file").All()
	require.Len(t, processing, 2)
	assert.Equal(t, "[1/2]", processing[0].ContextMap()["progress"])
	assert.Equal(t, "b/c.wav", processing[1].ContextMap()["file"])

	assert.Len(t, h.logs.FilterMessage("Finished file").All(), 2)
	assert.Len(t, h.logs.FilterMessage("All files processed").All(), 1)
}

func TestRun_RecordsMetrics(t *testing.T) {
	h := newHarness(t)
	h.cfg.MetricsFile = filepath.Join(t.TempDir(), "a2t.prom")
	apptest.CreateAudioTree(t, h.cfg.InputDir, "a.wav", "b.wav")
	transcriber := apptest.NewMockTranscriber().SetErrorForFile("b.wav", fmt.Errorf("bad"))

	_, err := h.converter(apptest.LoaderReturning(transcriber)).Run(context.Background())
	require.NoError(t, err)

	families, err := h.recorder.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	count, err := testutil.GatherAndCount(h.recorder.Registry(), "a2t_files_transcribed_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per outcome")

	data, err := os.ReadFile(h.cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `a2t_files_transcribed_total{backend="stub",model="small",status="failure"} 1`)
	assert.Contains(t, string(data), `a2t_last_run_success{backend="stub",model="small"} 1`)
}

func TestRun_FatalRunMarksMetricsFailed(t *testing.T) {
	h := newHarness(t)
	h.cfg.MetricsFile = filepath.Join(t.TempDir(), "a2t.prom")
	apptest.CreateAudioTree(t, h.cfg.InputDir, "a.wav")

	_, err := h.converter(apptest.LoaderFailing(fmt.Errorf("nope"))).Run(context.Background())
	require.Error(t, err)

	data, err := os.ReadFile(h.cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `a2t_last_run_success{backend="stub",model="small"} 0`)
}

func TestProgressManager_DisabledIsNoop(t *testing.T) {
	pm := NewProgressManager(ProgressConfig{Enabled: false})
	bar := pm.CreateBar(3, "Transcribing")
	bar.Start("a.wav")
	bar.Increment()
	bar.Abort()
	pm.Wait()

	var nilManager *ProgressManager
	nilManager.CreateBar(1, "x").Increment()
	nilManager.Wait()
}

func TestProgressManager_CompletesBar(t *testing.T) {
	var sink strings.Builder
	pm := NewProgressManager(ProgressConfig{Enabled: true, Output: &sink})
	bar := pm.CreateBar(2, "Transcribing")
	bar.Start("a.wav")
	bar.Increment()
	bar.Start("b/c.wav")
	bar.Increment()
	pm.Wait()
}

func TestProgressManager_StartsRendererOnlyWithBar(t *testing.T) {
	var sink strings.Builder
	pm := NewProgressManager(ProgressConfig{Enabled: true, Output: &sink})
	assert.Nil(t, pm.progress)
	pm.Wait()

	pm.CreateBar(1, "Transcribing").Increment()
	assert.NotNil(t, pm.progress)
	pm.Wait()
}

func TestRun_EnabledProgressWithoutFilesDoesNotStartRenderer(t *testing.T) {
	h := newHarness(t)
	var sink strings.Builder
	pm := NewProgressManager(ProgressConfig{Enabled: true, Output: &sink})
	c := h.converter(&apptest.MockLoader{})
	c.progress = pm

	_, err := c.Run(context.Background())

	require.NoError(t, err)
	assert.Nil(t, pm.progress)
}

func TestShouldShowProgress(t *testing.T) {
	assert.False(t, ShouldShowProgress(false))
	assert.False(t, IsTTY(nil))
	assert.False(t, IsTTY(&strings.Builder{}))
}
