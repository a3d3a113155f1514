package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RunFunc is the work performed when a debounced trigger fires. The generation
// identifies the trigger that scheduled the run.
type RunFunc func(ctx context.Context, generation uint64)

// Debouncer runs a function once the configured delay has passed without a new
// trigger. Every Trigger cancels the pending timer and bumps the generation, so
// a timer that fires after being superseded is dropped.
type Debouncer struct {
	delay  time.Duration
	run    RunFunc
	logger *slog.Logger

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	stopped    bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDebouncer creates a Debouncer. A negative delay is treated as zero.
func NewDebouncer(delay time.Duration, run RunFunc, logger *slog.Logger) *Debouncer {
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Debouncer{
		delay:  delay,
		run:    run,
		logger: logger.With(slog.String("component", "debouncer")),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Trigger (re)starts the delay and returns the new generation. After Stop it
// is a no-op returning the last generation.
func (d *Debouncer) Trigger() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return d.generation
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	gen := d.generation
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })

	d.logger.Debug("debounce scheduled", "generation", gen, "delay_ms", d.delay.Milliseconds())
	return gen
}

// Cancel drops the pending run, if any. Runs already in progress complete.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}

// Generation returns the most recent generation.
func (d *Debouncer) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

// IsCurrent reports whether gen is still the latest generation.
func (d *Debouncer) IsCurrent(gen uint64) bool {
	return d.Generation() == gen
}

// Stop cancels the pending run, cancels the context passed to an in-flight
// run and waits for it to return. Stop is idempotent.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		if d.timer != nil {
			d.timer.Stop()
			d.timer = nil
		}
		d.generation++
	}
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.generation {
		d.mu.Unlock()
		d.logger.Debug("dropping stale debounce", "generation", gen)
		return
	}
	d.timer = nil
	d.wg.Add(1)
	d.mu.Unlock()

	defer d.wg.Done()
	d.run(d.ctx, gen)
}
