package bot

import (
	"context"
	"errors"
	"sync"

	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"go.uber.org/zap"
)

// ErrDispatcherStopped is returned by Submit after Stop.
var ErrDispatcherStopped = errors.New("dispatcher stopped")

// HandlerFunc processes one event to completion.
type HandlerFunc func(ctx context.Context, ev Event)

// Dispatcher fans events out to a fixed set of workers, sharded by user
// id. Events from one user are handled strictly in arrival order; events
// from different users run concurrently.
type Dispatcher struct {
	handle HandlerFunc
	shards []chan Event

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
	logger  *logger.Logger
}

func NewDispatcher(handle HandlerFunc, workers, queueSize int, log *logger.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	d := &Dispatcher{
		handle: handle,
		shards: make([]chan Event, workers),
		logger: log.Named("Dispatcher"),
	}
	for i := range d.shards {
		d.shards[i] = make(chan Event, queueSize)
	}
	return d
}

// Start launches the workers. Handlers run with a context that is not
// cancelled with ctx, so events already queued at shutdown still finish.
func (d *Dispatcher) Start(ctx context.Context) {
	hctx := context.WithoutCancel(ctx)
	for i, ch := range d.shards {
		d.wg.Add(1)
		go func(shard int, ch <-chan Event) {
			defer d.wg.Done()
			for ev := range ch {
				d.handle(hctx, ev)
			}
			d.logger.Debug("Dispatcher worker stopped", zap.Int("shard", shard))
		}(i, ch)
	}
	d.logger.Info("Dispatcher started", zap.Int("workers", len(d.shards)))
}

// Submit queues ev on its user's shard, blocking while the shard is full.
func (d *Dispatcher) Submit(ctx context.Context, ev Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrDispatcherStopped
	}
	select {
	case d.shards[d.shardOf(ev.UserID())] <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) shardOf(userID int64) int {
	return int(uint64(userID) % uint64(len(d.shards)))
}

// Stop refuses new events, drains the queues and waits for the workers.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.shards {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
	d.logger.Info("Dispatcher stopped")
}
