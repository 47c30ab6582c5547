package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/metrics"
	"go.uber.org/zap"
)

// Job is one iteration of a background loop.
type Job func(ctx context.Context) error

// Loop runs a Job on a fixed interval until its context is cancelled.
// A failing or panicking iteration is logged and the loop carries on.
type Loop struct {
	name     string
	interval time.Duration
	job      Job
	metrics  *metrics.MetricsManager
	logger   *logger.Logger
}

func NewLoop(name string, interval time.Duration, job Job, m *metrics.MetricsManager, log *logger.Logger) *Loop {
	return &Loop{
		name:     name,
		interval: interval,
		job:      job,
		metrics:  m,
		logger:   log.Named("Worker").With(zap.String("loop", name)),
	}
}

func (l *Loop) Name() string { return l.name }

// Run executes the job once immediately and then on every tick. It
// returns when ctx is done.
func (l *Loop) Run(ctx context.Context) {
	if l.interval <= 0 {
		l.logger.Warn("Loop disabled, interval is not positive", zap.Duration("interval", l.interval))
		return
	}
	l.logger.Info("Background loop started", zap.Duration("interval", l.interval))
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		l.RunOnce(ctx)
		select {
		case <-ctx.Done():
			l.logger.Info("Background loop stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce executes a single iteration and reports whether it succeeded.
func (l *Loop) RunOnce(ctx context.Context) (ok bool) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Background loop iteration panicked", zap.Any("panic", r), zap.Stack("stack"))
			l.count("panic")
			ok = false
		}
	}()

	if err := l.job(ctx); err != nil {
		if ctx.Err() != nil {
			return false
		}
		l.logger.Error("Background loop iteration failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		l.count("error")
		return false
	}
	l.logger.Debug("Background loop iteration finished", zap.Duration("took", time.Since(start)))
	l.count("ok")
	return true
}

func (l *Loop) count(outcome string) {
	if l.metrics != nil {
		l.metrics.BackgroundRunsTotal.WithLabelValues(l.name, outcome).Inc()
	}
}

// RunAll starts every loop and blocks until all of them have returned.
func RunAll(ctx context.Context, loops ...*Loop) {
	var wg sync.WaitGroup
	for _, l := range loops {
		wg.Add(1)
		go func(l *Loop) {
			defer wg.Done()
			l.Run(ctx)
		}(l)
	}
	wg.Wait()
}

// Batch adapts a usecase batch pass to a Job, discarding the result.
func Batch[T any](fn func(ctx context.Context) (T, error)) Job {
	return func(ctx context.Context) error {
		if _, err := fn(ctx); err != nil {
			return fmt.Errorf("batch: %w", err)
		}
		return nil
	}
}
