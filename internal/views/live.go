package views

import (
	"sync"

	"github.com/mark31d/OlympusAirDiary/internal/models"
)

// Source is anything that hands out snapshots and change notifications.
type Source interface {
	Snapshot() models.Snapshot
	Subscribe(func(models.Snapshot)) func()
}

// Live keeps a projection of a Source up to date. Snapshots older than the
// one it holds are ignored, so out-of-order notifications cannot roll it back.
type Live[T any] struct {
	mu      sync.RWMutex
	value   T
	version uint64
	project func(models.Snapshot) T
	stop    func()
}

// NewLive computes project over the current snapshot and again after every
// notification until Close.
func NewLive[T any](src Source, project func(models.Snapshot) T) *Live[T] {
	l := &Live[T]{project: project}
	l.stop = src.Subscribe(l.update)
	l.update(src.Snapshot())
	return l
}

func (l *Live[T]) update(snap models.Snapshot) {
	v := l.project(snap)
	l.mu.Lock()
	defer l.mu.Unlock()
	if snap.Version < l.version {
		return
	}
	l.value = v
	l.version = snap.Version
}

// Value returns the latest projection.
func (l *Live[T]) Value() T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.value
}

// Close stops following the source.
func (l *Live[T]) Close() {
	l.stop()
}
