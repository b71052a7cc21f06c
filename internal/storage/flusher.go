package storage

import (
	"context"
	"sync"
	"time"

	"github.com/2beens/fitledger/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const defaultWriteTimeout = 5 * time.Second

// Flusher mirrors state snapshots to a Store in the background.
// Enqueue never blocks on I/O: only the latest snapshot per key is kept,
// and a single goroutine writes pending snapshots in enqueue order.
// A crash between Enqueue and the write loses that snapshot.
type Flusher struct {
	store          Store
	metricsManager *metrics.Manager
	writeTimeout   time.Duration

	mu      sync.Mutex
	pending map[string][]byte
	order   []string
	closed  bool
	errs    error

	wake      chan struct{}
	flushReqs chan chan error
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewFlusher(store Store, metricsManager *metrics.Manager) *Flusher {
	f := &Flusher{
		store:          store,
		metricsManager: metricsManager,
		writeTimeout:   defaultWriteTimeout,
		pending:        make(map[string][]byte),
		wake:           make(chan struct{}, 1),
		flushReqs:      make(chan chan error),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
	go f.run()
	return f
}

// Enqueue schedules data to be saved under key. Data is copied.
func (f *Flusher) Enqueue(key string, data []byte) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		log.Warnf("flusher closed, dropping state snapshot for [%s]", key)
		return
	}
	if _, exists := f.pending[key]; !exists {
		f.order = append(f.order, key)
	}
	f.pending[key] = append([]byte(nil), data...)
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
		// a wake-up is already pending
	}
}

// Flush blocks until everything enqueued so far is written, and returns the write errors of that pass.
func (f *Flusher) Flush(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case f.flushReqs <- reply:
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes the remaining snapshots, stops the background goroutine and
// returns all write errors seen by background passes.
func (f *Flusher) Close(ctx context.Context) error {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		f.closed = true
		f.mu.Unlock()
		close(f.stop)
	})

	select {
	case <-f.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs
}

func (f *Flusher) run() {
	defer close(f.done)
	for {
		select {
		case <-f.wake:
			f.recordErr(f.drain())
		case reply := <-f.flushReqs:
			reply <- f.drain()
		case <-f.stop:
			f.recordErr(f.drain())
			return
		}
	}
}

func (f *Flusher) recordErr(err error) {
	if err == nil {
		return
	}
	f.mu.Lock()
	f.errs = multierr.Append(f.errs, err)
	f.mu.Unlock()
}

func (f *Flusher) drain() error {
	f.mu.Lock()
	pending, order := f.pending, f.order
	f.pending = make(map[string][]byte)
	f.order = nil
	f.mu.Unlock()

	var errs error
	for _, key := range order {
		errs = multierr.Append(errs, f.write(key, pending[key]))
	}
	return errs
}

func (f *Flusher) write(key string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), f.writeTimeout)
	defer cancel()

	begin := time.Now()
	err := f.store.Save(ctx, key, data)
	if f.metricsManager != nil {
		f.metricsManager.HistFlushDuration.WithLabelValues(key).Observe(time.Since(begin).Seconds())
		status := "ok"
		if err != nil {
			status = "error"
		}
		f.metricsManager.CounterStateFlushes.WithLabelValues(key, status).Inc()
	}

	if err != nil {
		log.Errorf("flush state [%s]: %s", key, err)
		return err
	}
	log.Tracef("flushed state [%s], %d bytes", key, len(data))
	return nil
}
