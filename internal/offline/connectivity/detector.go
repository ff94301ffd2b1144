package connectivity

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultProbeTimeout bounds a single reachability probe.
const DefaultProbeTimeout = 5 * time.Second

// Pinger checks whether the API answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OnlineSetter receives reachability reports.
type OnlineSetter interface {
	SetOnline(ctx context.Context, online bool)
}

// Detector turns periodic probes into online/offline reports.
type Detector struct {
	pinger   Pinger
	target   OnlineSetter
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewDetector creates a Detector probing every interval.
func NewDetector(pinger Pinger, target OnlineSetter, interval time.Duration, logger *slog.Logger) *Detector {
	if pinger == nil {
		panic("pinger cannot be nil")
	}
	if target == nil {
		panic("target cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	timeout := DefaultProbeTimeout
	if interval > 0 && interval < timeout {
		timeout = interval
	}
	return &Detector{
		pinger:   pinger,
		target:   target,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With(slog.String("component", "connectivity_detector")),
	}
}

// Check runs one probe, reports the result and returns it. A probe cut
// short by ctx reports nothing and returns false.
func (d *Detector) Check(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := d.pinger.Ping(probeCtx)
	if ctx.Err() != nil {
		return false
	}

	online := err == nil
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		d.logger.Debug("probe failed", slog.String("error", err.Error()))
	}
	d.target.SetOnline(ctx, online)
	return online
}

// Run probes immediately and then every interval until ctx is done.
func (d *Detector) Run(ctx context.Context) error {
	d.Check(ctx)

	if d.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.Check(ctx)
		}
	}
}
