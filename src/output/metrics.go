package output

import (
	"github.com/prometheus/client_golang/prometheus"

	"wireworld/src/universe"
)

//Metrics counts the work of a batch, it is also a Sink counting emitted frames
type Metrics struct {
	reg         *prometheus.Registry
	frames      prometheus.Counter
	experiments *prometheus.CounterVec
	placed      prometheus.Counter
	rejected    prometheus.Counter
	duration    prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wireworld_frames_total",
			Help: "Snapshots emitted to the sinks.",
		}),
		experiments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wireworld_experiments_total",
			Help: "Finished experiments by how they ended.",
		}, []string{"outcome"}),
		placed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wireworld_adders_placed_total",
			Help: "Half-adders stamped onto generated fields.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wireworld_adders_rejected_total",
			Help: "Placement attempts dropped because they overlapped.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wireworld_experiment_duration_seconds",
			Help:    "Wall time of one experiment including its sinks.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
	m.reg.MustRegister(m.frames, m.experiments, m.placed, m.rejected, m.duration)
	return m
}

func (m *Metrics) Emit(int, int, universe.Area) error {
	m.frames.Inc()
	return nil
}

//Observe records a finished experiment
func (m *Metrics) Observe(res universe.Result) {
	outcome := "bounded"
	if res.Stabilized {
		outcome = "stabilized"
	}
	m.experiments.WithLabelValues(outcome).Inc()
	m.placed.Add(float64(len(res.Placements)))
	m.rejected.Add(float64(res.Rejected))
	m.duration.Observe(res.Duration.Seconds())
}

//ObserveFailure records an experiment aborted by an error
func (m *Metrics) ObserveFailure() {
	m.experiments.WithLabelValues("failed").Inc()
}

//Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

//WriteFile writes the metrics in the text exposition format
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
