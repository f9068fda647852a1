package converter

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type ProgressConfig struct {
	Enabled bool
	Output  io.Writer
}

// ProgressManager owns the terminal bar of a run. The mpb container and its
// render goroutine only exist once a bar is created. A nil or disabled
// manager hands out bars whose methods do nothing.
type ProgressManager struct {
	enabled  bool
	output   io.Writer
	progress *mpb.Progress
}

// ProgressBar counts finished files and shows the one being transcribed.
type ProgressBar struct {
	bar     *mpb.Bar
	current atomic.Value
}

func NewProgressManager(cfg ProgressConfig) *ProgressManager {
	if !cfg.Enabled {
		return &ProgressManager{}
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	return &ProgressManager{enabled: true, output: out}
}

func (pm *ProgressManager) active() bool {
	return pm != nil && pm.progress != nil
}

// CreateBar adds the bar for a batch of total files.
func (pm *ProgressManager) CreateBar(total int, label string) *ProgressBar {
	pb := &ProgressBar{}
	pb.current.Store("")
	if pm == nil || !pm.enabled {
		return pb
	}
	if pm.progress == nil {
		pm.progress = mpb.New(mpb.WithOutput(pm.output), mpb.WithRefreshRate(150*time.Millisecond))
	}

	pb.bar = pm.progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(label, decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d/%d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(
				decor.Any(func(decor.Statistics) string { return pb.current.Load().(string) }, decor.WCSyncSpace),
				"done",
			),
		),
	)
	return pb
}

// Start shows relPath as the file in progress.
func (pb *ProgressBar) Start(relPath string) {
	pb.current.Store(relPath)
}

// Increment marks one more file finished.
func (pb *ProgressBar) Increment() {
	if pb.bar != nil {
		pb.bar.Increment()
	}
}

// Abort drops an unfinished bar so Wait returns when the run stops early.
func (pb *ProgressBar) Abort() {
	if pb.bar != nil && !pb.bar.Completed() {
		pb.bar.Abort(true)
	}
}

func (pm *ProgressManager) Wait() {
	if pm.active() {
		pm.progress.Wait()
	}
}

// IsTTY reports whether w is a character device.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// ShouldShowProgress enables the bar only when requested and stderr is a terminal.
func ShouldShowProgress(requested bool) bool {
	return requested && IsTTY(os.Stderr)
}
