package diary

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mark31d/OlympusAirDiary/internal/store"
)

// writer persists scheduled values on its own goroutine. Only the latest
// value per key is kept while a key waits, so a burst of mutations costs one
// write per key.
type writer struct {
	kv       store.KV
	logger   *slog.Logger
	recorder Recorder

	mu      sync.Mutex
	pending map[string]string
	order   []string
	busy    bool
	closed  bool
	waiters []chan struct{}

	wake      chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newWriter(kv store.KV, logger *slog.Logger, recorder Recorder) *writer {
	w := &writer{
		kv:       kv,
		logger:   logger,
		recorder: recorder,
		pending:  make(map[string]string),
		wake:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// schedule queues value for key and returns immediately.
func (w *writer) schedule(key, value string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Debug("writer closed, dropping write", "key", key)
		return
	}
	if _, queued := w.pending[key]; !queued {
		w.order = append(w.order, key)
	}
	w.pending[key] = value
	w.mu.Unlock()
	w.signal()
}

func (w *writer) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.quit:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	for {
		w.mu.Lock()
		if len(w.order) == 0 {
			w.busy = false
			waiters := w.waiters
			w.waiters = nil
			w.mu.Unlock()
			for _, ch := range waiters {
				close(ch)
			}
			return
		}
		key := w.order[0]
		w.order = w.order[1:]
		value := w.pending[key]
		delete(w.pending, key)
		w.busy = true
		w.mu.Unlock()

		err := w.kv.Set(context.Background(), key, value)
		if err != nil {
			w.logger.Warn("persist failed", "key", key, "error", err)
		} else {
			w.logger.Debug("persisted", "key", key, "bytes", len(value))
		}
		w.recorder.PersistCompleted(key, err)
	}
}

// flush waits until the queue is empty and no write is in flight.
func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	if len(w.order) == 0 && !w.busy {
		w.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	w.waiters = append(w.waiters, ch)
	w.mu.Unlock()
	w.signal()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains the queue and stops the goroutine.
func (w *writer) close(ctx context.Context) error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.quit)
	})

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
