package metrics

import (
	"context"
	"sliderapp/internal/core/domain/report"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const NAMESPACE = "sliderapp"

// Prometheus exports scheduler pass reports as metrics.
type Prometheus struct {
	runs               *prometheus.CounterVec
	remindersProcessed prometheus.Counter
	remindersFired     prometheus.Counter
	remindersFailed    prometheus.Counter
	deliveries         *prometheus.CounterVec
	pruned             prometheus.Counter
	runDuration        prometheus.Histogram
	lastRun            prometheus.Gauge
}

func NewPrometheus(registerer prometheus.Registerer) *Prometheus {
	factory := promauto.With(registerer)
	return &Prometheus{
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: NAMESPACE,
				Name:      "scheduler_runs_total",
				Help:      "Total number of scheduler passes",
			},
			[]string{"trigger"},
		),
		remindersProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "reminders_processed_total",
			Help:      "Total number of reminders evaluated by scheduler passes",
		}),
		remindersFired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "reminders_fired_total",
			Help:      "Total number of fired reminders",
		}),
		remindersFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "reminders_failed_total",
			Help:      "Total number of reminders which could not be processed",
		}),
		deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: NAMESPACE,
				Name:      "deliveries_total",
				Help:      "Total number of notification delivery attempts",
			},
			[]string{"outcome"},
		),
		pruned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "subscriptions_pruned_total",
			Help:      "Total number of subscriptions deleted after terminal delivery failures",
		}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: NAMESPACE,
			Name:      "scheduler_run_duration_seconds",
			Help:      "Duration of scheduler passes in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "scheduler_last_run_timestamp_seconds",
			Help:      "Unix time of the last finished scheduler pass",
		}),
	}
}

func (p *Prometheus) Report(ctx context.Context, r report.RunReport) error {
	p.runs.WithLabelValues(string(r.Trigger)).Inc()
	p.remindersProcessed.Add(float64(r.Processed))
	p.remindersFired.Add(float64(r.Fired))
	p.remindersFailed.Add(float64(r.Failed))
	p.deliveries.WithLabelValues("delivered").Add(float64(r.Delivered))
	p.deliveries.WithLabelValues("failed").Add(float64(r.DeliveryAttempts - r.Delivered))
	p.pruned.Add(float64(len(r.Pruned)))
	p.runDuration.Observe(r.FinishedAt.Sub(r.StartedAt).Seconds())
	p.lastRun.Set(float64(r.FinishedAt.Unix()))
	return nil
}
