package metrics

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/tendant/sticker-resize-fix/pkg/pipeline"
)

// JobName is the Pushgateway job label for correction runs
const JobName = "sticker_fix"

// Pusher exports run summaries to a Prometheus Pushgateway. A batch job
// exits before any scraper could reach it, so metrics are pushed once.
type Pusher struct {
	url string
	job string
}

// NewPusher creates a pusher for the Pushgateway at url
func NewPusher(url string) *Pusher {
	return &Pusher{
		url: url,
		job: JobName,
	}
}

// Observe pushes the gauges describing summary
func (p *Pusher) Observe(ctx context.Context, summary *pipeline.Summary) error {
	reg := prometheus.NewRegistry()

	items := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sticker_fix_items",
		Help: "Stickers visited in the last correction run, by library and outcome.",
	}, []string{"library", "outcome"})
	candidates := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sticker_fix_candidates",
		Help: "Candidates selected in the last correction run, by library.",
	}, []string{"library"})
	libraryErrors := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sticker_fix_library_error",
		Help: "1 if the library failed in the last correction run.",
	}, []string{"library"})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sticker_fix_run_duration_seconds",
		Help: "Wall time of the last correction run.",
	})
	completed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sticker_fix_last_completion_timestamp_seconds",
		Help: "Unix time the last correction run finished.",
	})
	reg.MustRegister(items, candidates, libraryErrors, duration, completed)

	for _, r := range summary.Libraries {
		lib := string(r.Library)
		for _, o := range pipeline.Outcomes {
			items.WithLabelValues(lib, string(o)).Set(float64(r.Counters.Get(o)))
		}
		candidates.WithLabelValues(lib).Set(float64(r.Candidates))
		if r.Error != "" {
			libraryErrors.WithLabelValues(lib).Set(1)
		} else {
			libraryErrors.WithLabelValues(lib).Set(0)
		}
	}
	duration.Set(summary.FinishedAt.Sub(summary.StartedAt).Seconds())
	completed.Set(float64(summary.FinishedAt.Unix()))

	err := push.New(p.url, p.job).
		Gatherer(reg).
		Grouping("dry_run", strconv.FormatBool(summary.DryRun)).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}

	return nil
}
