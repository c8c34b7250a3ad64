// Package uploader replays queued outgoing commands once connectivity
// returns. It is a process-wide daemon: constructed once at startup,
// started after the reachability tracker, stopped at teardown.
package uploader

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/dbakhtin/socialsync/internal/cache"
	"github.com/dbakhtin/socialsync/internal/command"
	"github.com/dbakhtin/socialsync/internal/logging"
	"github.com/dbakhtin/socialsync/internal/reachability"
	"github.com/dbakhtin/socialsync/internal/service"
	"github.com/dbakhtin/socialsync/internal/transactions"
)

// Executor runs one request against the backend. Satisfied by
// service.RemoteService implementations.
type Executor interface {
	Execute(ctx context.Context, req *service.Request) ([]byte, error)
}

// Daemon drains the outgoing queue whenever the network comes back.
//
// A fresh reachable signal while a drain is running cancels the drain
// and restarts it from a new fetch. Every drain carries a generation
// number; an operation from a superseded generation never deletes its
// transaction, so stale work cannot race a fresh fetch into losing rows.
//
// Commands targeting the same entity replay strictly in insertion order
// inside one goroutine; distinct entities drain concurrently.
type Daemon struct {
	cache   cache.Cache
	remote  Executor
	tracker *reachability.Tracker
	log     logging.Logger
	metrics *Metrics

	concurrency int
	drainHook   func(generation uint64)

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	started    bool
	wg         sync.WaitGroup
}

type Option func(*Daemon)

// WithConcurrency bounds how many entities drain in parallel.
func WithConcurrency(n int) Option {
	return func(d *Daemon) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithDrainHook installs a callback invoked after each drain cycle
// finishes, with that cycle's generation.
func WithDrainHook(fn func(generation uint64)) Option {
	return func(d *Daemon) { d.drainHook = fn }
}

func New(c cache.Cache, remote Executor, tracker *reachability.Tracker, log logging.Logger, opts ...Option) *Daemon {
	d := &Daemon{
		cache:       c,
		remote:      remote,
		tracker:     tracker,
		log:         log,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.metrics == nil {
		m, err := NewMetrics(otel.Meter("socialsync/uploader"))
		if err != nil {
			// Only fails on instrument name collisions within the
			// meter, which would be a programming error.
			panic(err)
		}
		d.metrics = m
	}
	return d
}

// Start subscribes the daemon to reachability changes. If the network is
// already reachable a drain starts immediately.
func (d *Daemon) Start() {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	d.tracker.AddListener(d)
	if d.tracker.IsReachable() {
		d.restartDrain()
	}
}

// Stop unsubscribes, cancels any in-flight drain and waits for it to
// wind down. Transactions of unfinished commands stay queued.
func (d *Daemon) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	d.started = false
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	d.tracker.RemoveListener(d)
	if cancel != nil {
		cancel()
	}
	d.wg.Wait()
}

// NetworkStatusChanged implements reachability.Listener.
func (d *Daemon) NetworkStatusChanged(isReachable bool) {
	if !isReachable {
		return
	}
	d.restartDrain()
}

// restartDrain cancels the current drain, bumps the generation and kicks
// off a fresh one.
func (d *Daemon) restartDrain() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.generation++
	gen := d.generation
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.drain(ctx, gen)
	}()
}

func (d *Daemon) isCurrent(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started && gen == d.generation
}

func (d *Daemon) drain(ctx context.Context, gen uint64) {
	started := time.Now()
	d.metrics.DrainsStarted.Add(ctx, 1)
	if d.drainHook != nil {
		defer d.drainHook(gen)
	}

	cmds, err := d.cache.FetchOutgoing(ctx, transactions.Predicate{})
	if err != nil {
		d.log.Error(ctx, "failed to fetch outgoing commands", "generation", gen, "error", err)
		return
	}
	if len(cmds) == 0 {
		return
	}
	d.log.Info(ctx, "draining outgoing commands", "count", len(cmds), "generation", gen)

	g := &errgroup.Group{}
	g.SetLimit(d.concurrency)

	for _, group := range groupByEntity(cmds) {
		g.Go(func() error {
			for _, cmd := range group {
				if ctx.Err() != nil {
					return nil
				}
				if !d.executeOne(ctx, gen, cmd) {
					// Keep per-entity order: once a command fails,
					// later commands for the same entity wait for
					// the next reconnect.
					return nil
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	d.metrics.DrainDuration.Record(ctx, time.Since(started).Seconds())
	d.log.Info(ctx, "drain finished", "generation", gen, "elapsed", time.Since(started))
}

// executeOne replays a single command. It reports whether the entity's
// remaining commands may proceed.
func (d *Daemon) executeOne(ctx context.Context, gen uint64, cmd command.Command) bool {
	req, ok := service.BuildRequest(cmd)
	if !ok {
		d.metrics.CommandsSkipped.Add(ctx, 1)
		d.log.Warn(ctx, "no request shape for queued command", "type", cmd.TypeID())
		return true
	}

	if _, err := d.remote.Execute(ctx, req); err != nil {
		d.metrics.CommandsFailed.Add(ctx, 1)
		if ctx.Err() == nil {
			d.log.Warn(ctx, "queued command failed, will retry on next reconnect",
				"type", cmd.TypeID(), "handle", cmd.Handle(), "error", err)
		}
		return false
	}

	// A superseded generation must not touch the store: the restarted
	// drain has re-fetched this row and owns its lifecycle now.
	if !d.isCurrent(gen) {
		return false
	}

	deleteCtx := context.WithoutCancel(ctx)
	if err := d.cache.DeleteOutgoing(deleteCtx, cache.PredicateFor(cmd)); err != nil {
		d.log.Error(ctx, "failed to delete confirmed command",
			"type", cmd.TypeID(), "handle", cmd.Handle(), "error", err)
		return false
	}
	d.metrics.CommandsExecuted.Add(ctx, 1)
	return true
}

// groupByEntity splits commands into per-entity queues, preserving both
// the insertion order within each queue and the first-seen order of the
// queues themselves.
func groupByEntity(cmds []command.Command) [][]command.Command {
	index := make(map[string]int)
	var groups [][]command.Command
	for _, c := range cmds {
		key := c.RelatedHandle()
		if key == "" {
			key = c.Handle()
		}
		if i, ok := index[key]; ok {
			groups[i] = append(groups[i], c)
		} else {
			index[key] = len(groups)
			groups = append(groups, []command.Command{c})
		}
	}
	return groups
}
