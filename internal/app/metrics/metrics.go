package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// File outcome label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Recorder collects the metrics of one batch run in its own registry so the
// result can be exported as a node_exporter textfile.
type Recorder struct {
	registry *prometheus.Registry

	filesTotal      *prometheus.CounterVec
	fileDuration    prometheus.Histogram
	discoveredFiles prometheus.Gauge
	runDuration     prometheus.Gauge
	lastRunSuccess  prometheus.Gauge
	lastRunTime     prometheus.Gauge
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder(backend, model string) *Recorder {
	labels := prometheus.Labels{"backend": backend, "model": model}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		filesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "a2t_files_transcribed_total",
			Help:        "Files processed in the run, by outcome.",
			ConstLabels: labels,
		}, []string{"status"}),
		fileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "a2t_file_duration_seconds",
			Help:        "Wall-clock time to transcribe and write one file.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		discoveredFiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "a2t_files_discovered",
			Help:        "Audio files discovered under the input root.",
			ConstLabels: labels,
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "a2t_run_duration_seconds",
			Help:        "Wall-clock time of the whole run.",
			ConstLabels: labels,
		}),
		lastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "a2t_last_run_success",
			Help:        "1 when the run finished without a fatal error.",
			ConstLabels: labels,
		}),
		lastRunTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "a2t_last_run_timestamp_seconds",
			Help:        "Unix time the run finished.",
			ConstLabels: labels,
		}),
	}

	r.registry.MustRegister(
		r.filesTotal,
		r.fileDuration,
		r.discoveredFiles,
		r.runDuration,
		r.lastRunSuccess,
		r.lastRunTime,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveDiscovered records the discovery count.
func (r *Recorder) ObserveDiscovered(n int) {
	r.discoveredFiles.Set(float64(n))
}

// ObserveFile records one processed file.
func (r *Recorder) ObserveFile(succeeded bool, d time.Duration) {
	status := StatusSuccess
	if !succeeded {
		status = StatusFailure
	}
	r.filesTotal.WithLabelValues(status).Inc()
	r.fileDuration.Observe(d.Seconds())
}

// ObserveRun records the end of the run.
func (r *Recorder) ObserveRun(d time.Duration, succeeded bool, finishedAt time.Time) {
	r.runDuration.Set(d.Seconds())
	if succeeded {
		r.lastRunSuccess.Set(1)
	} else {
		r.lastRunSuccess.Set(0)
	}
	r.lastRunTime.Set(float64(finishedAt.Unix()))
}

// WriteTextfile writes the metrics in the text exposition format, atomically
// replacing path.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
