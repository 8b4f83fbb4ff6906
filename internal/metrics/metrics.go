// Package metrics records filter widget activity as Prometheus metrics.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tabfilter/internal/widget"
)

const namespace = "tabfilter"

// Recorder holds the metrics of one widget in its own registry.
type Recorder struct {
	reg       *prometheus.Registry
	cycles    prometheus.Counter
	mutations prometheus.Counter
	duration  prometheus.Histogram
	rows      prometheus.Gauge
	visible   prometheus.Gauge
	filters   prometheus.Gauge
	columns   prometheus.Gauge
}

// New creates a Recorder whose series carry the table selector as a label.
func New(selector string) *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(prometheus.WrapRegistererWith(prometheus.Labels{"selector": selector}, reg))
	return &Recorder{
		reg: reg,
		cycles: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Completed recomputation cycles.",
		}),
		mutations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "row_mutations_total",
			Help:      "Row elements detached from or re-inserted into the table.",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Time spent in one recomputation cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		rows: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows",
			Help:      "Body rows captured at attach.",
		}),
		visible: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "visible_rows",
			Help:      "Rows matching every active filter.",
		}),
		filters: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_filters",
			Help:      "Columns with a non-default selection.",
		}),
		columns: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filtered_columns",
			Help:      "Columns carrying a filter control.",
		}),
	}
}

// Watch seeds the gauges from w and observes every later cycle.
func (r *Recorder) Watch(w *widget.Widget) {
	r.rows.Set(float64(len(w.Rows())))
	r.visible.Set(float64(len(w.VisibleRows())))
	r.filters.Set(float64(len(w.Selections())))
	r.columns.Set(float64(w.Columns()))
	w.OnChange(r.Observe)
}

// Observe records one completed cycle.
func (r *Recorder) Observe(st widget.State) {
	r.cycles.Inc()
	r.mutations.Add(float64(st.Mutations))
	r.duration.Observe(st.Elapsed.Seconds())
	r.visible.Set(float64(len(st.Visible)))
	r.filters.Set(float64(len(st.Selections)))
}

// WriteFile writes the metrics in the text exposition format, for the node
// exporter textfile collector.
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
