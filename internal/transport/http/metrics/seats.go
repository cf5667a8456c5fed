package metrics

import (
	"context"
	"time"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// StatsSource is satisfied by the usecase layer.
type StatsSource interface {
	Stats(ctx context.Context) (entities.Stats, error)
}

// Seats reports the current seat totals at scrape time.
type Seats struct {
	log     *zap.SugaredLogger
	src     StatsSource
	timeout time.Duration

	licenses *prometheus.Desc
	users    *prometheus.Desc
	free     *prometheus.Desc
	usage    *prometheus.Desc
	up       *prometheus.Desc
}

// NewSeats builds a collector backed by src.
func NewSeats(log *zap.SugaredLogger, src StatsSource, timeout time.Duration) *Seats {
	name := func(n string) string { return prometheus.BuildFQName("license_seats", "", n) }
	return &Seats{
		log:      log.Named("metrics"),
		src:      src,
		timeout:  timeout,
		licenses: prometheus.NewDesc(name("licenses"), "Number of licenses", nil, nil),
		users:    prometheus.NewDesc(name("users"), "Number of assigned users", nil, nil),
		free:     prometheus.NewDesc(name("available_slots"), "Free seats across all licenses", nil, nil),
		usage:    prometheus.NewDesc(name("usage_percent"), "Occupied share of all seats", nil, nil),
		up:       prometheus.NewDesc(name("stats_up"), "Whether the last stats read succeeded", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (s *Seats) Describe(ch chan<- *prometheus.Desc) {
	ch <- s.licenses
	ch <- s.users
	ch <- s.free
	ch <- s.usage
	ch <- s.up
}

// Collect implements prometheus.Collector.
func (s *Seats) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	stats, err := s.src.Stats(ctx)
	if err != nil {
		s.log.Warnw("collect seat stats", "error", err)
		ch <- prometheus.MustNewConstMetric(s.up, prometheus.GaugeValue, 0)
		return
	}

	ch <- prometheus.MustNewConstMetric(s.up, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(s.licenses, prometheus.GaugeValue, float64(stats.TotalLicenses))
	ch <- prometheus.MustNewConstMetric(s.users, prometheus.GaugeValue, float64(stats.TotalUsers))
	ch <- prometheus.MustNewConstMetric(s.free, prometheus.GaugeValue, float64(stats.AvailableSlots))
	ch <- prometheus.MustNewConstMetric(s.usage, prometheus.GaugeValue, float64(stats.UsagePercentage))
}
