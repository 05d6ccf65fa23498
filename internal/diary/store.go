// Package diary holds the authoritative diary state: the memory records and
// the rewards ledger. Every mutation updates memory synchronously and hands
// the affected slice to a background writer.
package diary

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mark31d/OlympusAirDiary/internal/models"
	"github.com/mark31d/OlympusAirDiary/internal/store"
	"github.com/mark31d/OlympusAirDiary/internal/views"
)

// Durable keys, one per independently persisted slice.
const (
	KeyMemories      = "@air_moments_diary__memories"
	KeyPoints        = "@air_moments_diary__points"
	KeyPurchasedTips = "@air_moments_diary__purchased_tips"
)

// Mutation names reported to the Recorder.
const (
	OpAddMemory    = "add_memory"
	OpUpdateMemory = "update_memory"
	OpRemoveMemory = "remove_memory"
	OpAddPoints    = "add_points"
	OpSpendPoints  = "spend_points"
	OpPurchaseTip  = "purchase_tip"
)

// Recorder observes store activity. Implementations must be safe for
// concurrent use; PersistCompleted is called from the writer goroutine.
type Recorder interface {
	MutationApplied(op string)
	PersistCompleted(key string, err error)
}

type nopRecorder struct{}

func (nopRecorder) MutationApplied(string)         {}
func (nopRecorder) PersistCompleted(string, error) {}

// Listener receives a copy of the state after each mutation. The snapshot is
// shared between listeners and must not be modified. Concurrent mutations may
// deliver out of order; compare Snapshot.Version to keep the newest.
type Listener = func(models.Snapshot)

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithClock overrides the source of CreatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides memory id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Store is the single source of truth for diary state. Construct it once and
// pass it to every consumer.
type Store struct {
	mu       sync.Mutex
	memories []models.Memory
	points   int
	tips     []string
	tipSet   map[string]struct{}
	ready    bool
	version  uint64

	kv       store.KV
	writer   *writer
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
	newID    func() string
	encode   func(any) ([]byte, error)

	subMu   sync.Mutex
	subs    []subscription
	nextSub uint64
}

type subscription struct {
	id uint64
	fn Listener
}

// New creates an empty store over kv and starts its background writer.
// Call Initialize before serving consumers.
func New(kv store.KV, opts ...Option) *Store {
	s := &Store{
		memories: []models.Memory{},
		tips:     []string{},
		tipSet:   make(map[string]struct{}),
		kv:       kv,
		logger:   slog.New(slog.DiscardHandler),
		recorder: nopRecorder{},
		now:      time.Now,
		newID:    uuid.NewString,
		encode:   json.Marshal,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.writer = newWriter(kv, s.logger, s.recorder)
	return s
}

// Initialize loads the three persisted slices. Each falls back to its default
// independently when missing or malformed. Only the first successful call
// loads; later calls return nil. A done context aborts without marking the
// store ready so that an empty state never overwrites durable data.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	ready := s.ready
	s.mu.Unlock()
	if ready {
		return nil
	}

	memories := s.loadMemories(ctx)
	points := s.loadPoints(ctx)
	tips := s.loadTips(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return nil
	}
	s.memories = memories
	s.points = points
	s.tips = tips
	s.tipSet = make(map[string]struct{}, len(tips))
	for _, t := range tips {
		s.tipSet[t] = struct{}{}
	}
	s.ready = true
	snap := s.commitLocked()
	s.mu.Unlock()

	s.logger.Info("diary loaded",
		"memories", len(memories),
		"points", points,
		"purchased_tips", len(tips),
	)
	s.notify(snap)
	return nil
}

// Ready reports whether Initialize has completed.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// AddMemory creates a record from d, assigning its id and creation time, and
// inserts it at the front of the list.
func (s *Store) AddMemory(d models.Draft) models.Memory {
	s.mu.Lock()
	id := s.newID()
	for id == "" || s.indexLocked(id) >= 0 {
		id = uuid.NewString()
	}
	m := models.Memory{
		ID:          id,
		Category:    d.Category,
		Title:       normalizeTitle(d.Title),
		Description: d.Description,
		DateISO:     d.DateISO,
		PhotoURI:    d.PhotoURI,
		CreatedAt:   s.now().UnixMilli(),
	}
	next := make([]models.Memory, 0, len(s.memories)+1)
	next = append(next, m)
	s.memories = append(next, s.memories...)
	s.scheduleMemoriesLocked()
	snap := s.commitLocked()
	s.mu.Unlock()

	s.applied(OpAddMemory, snap)
	return m
}

// UpdateMemory replaces the fields set in patch on the record with the given
// id. An unknown id is a no-op and reports false.
func (s *Store) UpdateMemory(id string, patch models.Patch) (models.Memory, bool) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Memory{}, false
	}
	m := s.memories[idx]
	if patch.Empty() {
		s.mu.Unlock()
		return m, true
	}
	if patch.Category != nil {
		m.Category = *patch.Category
	}
	if patch.Title != nil {
		m.Title = normalizeTitle(*patch.Title)
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.DateISO != nil {
		m.DateISO = *patch.DateISO
	}
	if patch.PhotoURI != nil {
		m.PhotoURI = *patch.PhotoURI
	}
	s.memories[idx] = m
	s.scheduleMemoriesLocked()
	snap := s.commitLocked()
	s.mu.Unlock()

	s.applied(OpUpdateMemory, snap)
	return m, true
}

// RemoveMemory deletes the record with the given id. An unknown id is a no-op
// and reports false.
func (s *Store) RemoveMemory(id string) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	next := make([]models.Memory, 0, len(s.memories)-1)
	next = append(next, s.memories[:idx]...)
	s.memories = append(next, s.memories[idx+1:]...)
	s.scheduleMemoriesLocked()
	snap := s.commitLocked()
	s.mu.Unlock()

	s.applied(OpRemoveMemory, snap)
	return true
}

// QueryByDate returns the records sharing the date-only prefix of dateISO,
// in store order.
func (s *Store) QueryByDate(dateISO string) []models.Memory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return views.OnDate(s.memories, dateISO)
}

// Memory returns the record with the given id.
func (s *Store) Memory(id string) (models.Memory, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return models.Memory{}, false
	}
	return s.memories[idx], true
}

// Memories returns a copy of all records, most recently added first.
func (s *Store) Memories() []models.Memory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMemories(s.memories)
}

// AddPoints credits amount to the balance. Non-positive amounts are ignored.
func (s *Store) AddPoints(amount int) {
	if amount <= 0 {
		return
	}
	s.mu.Lock()
	s.points += amount
	s.schedulePointsLocked()
	snap := s.commitLocked()
	s.mu.Unlock()

	s.applied(OpAddPoints, snap)
}

// SpendPoints deducts amount when the balance covers it. The check and the
// deduction happen under one lock.
func (s *Store) SpendPoints(amount int) bool {
	_, ok := s.Spend(amount)
	return ok
}

// Spend is SpendPoints that also returns the balance left by this call.
func (s *Store) Spend(amount int) (balance int, ok bool) {
	s.mu.Lock()
	if !s.spendLocked(amount) {
		balance = s.points
		s.mu.Unlock()
		return balance, false
	}
	s.schedulePointsLocked()
	snap := s.commitLocked()
	s.mu.Unlock()

	s.applied(OpSpendPoints, snap)
	return snap.Points, true
}

// PurchaseTip spends cost and unlocks tipID in one step. Buying an unlocked
// tip again still spends; the tip set is unchanged.
func (s *Store) PurchaseTip(tipID string, cost int) bool {
	_, ok := s.Purchase(tipID, cost)
	return ok
}

// Purchase is PurchaseTip that also returns the balance left by this call.
func (s *Store) Purchase(tipID string, cost int) (balance int, ok bool) {
	s.mu.Lock()
	if !s.spendLocked(cost) {
		balance = s.points
		s.mu.Unlock()
		return balance, false
	}
	if _, owned := s.tipSet[tipID]; !owned {
		s.tipSet[tipID] = struct{}{}
		s.tips = append(s.tips, tipID)
	}
	s.schedulePointsLocked()
	s.scheduleTipsLocked()
	snap := s.commitLocked()
	s.mu.Unlock()

	s.applied(OpPurchaseTip, snap)
	return snap.Points, true
}

// IsTipPurchased reports whether tipID has been unlocked.
func (s *Store) IsTipPurchased(tipID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tipSet[tipID]
	return ok
}

func (s *Store) Points() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points
}

// PurchasedTips returns unlocked tip ids in purchase order.
func (s *Store) PurchasedTips() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.tips...)
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers l to be called after every mutation. The returned
// function removes the registration and is safe to call more than once.
func (s *Store) Subscribe(l Listener) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscription{id: id, fn: l})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// SubscribeLatest is Subscribe for consumers that only need the current
// state. The channel holds at most one snapshot, and a snapshot older than
// one already delivered is dropped.
func (s *Store) SubscribeLatest() (<-chan models.Snapshot, func()) {
	ch := make(chan models.Snapshot, 1)
	var (
		mu   sync.Mutex
		last uint64
	)
	unsubscribe := s.Subscribe(func(snap models.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if snap.Version < last {
			return
		}
		last = snap.Version
		select {
		case <-ch:
		default:
		}
		ch <- snap
	})
	return ch, unsubscribe
}

// Flush blocks until every write scheduled so far has been attempted.
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.flush(ctx)
}

// Close flushes pending writes and stops the background writer. Mutations
// after Close still change memory but are no longer persisted.
func (s *Store) Close(ctx context.Context) error {
	return s.writer.close(ctx)
}

func (s *Store) applied(op string, snap models.Snapshot) {
	s.recorder.MutationApplied(op)
	s.notify(snap)
}

func (s *Store) notify(snap models.Snapshot) {
	s.subMu.Lock()
	listeners := make([]Listener, len(s.subs))
	for i, sub := range s.subs {
		listeners[i] = sub.fn
	}
	s.subMu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *Store) spendLocked(amount int) bool {
	if amount < 0 || s.points < amount {
		return false
	}
	s.points -= amount
	return true
}

func (s *Store) indexLocked(id string) int {
	for i := range s.memories {
		if s.memories[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Version:       s.version,
		Memories:      cloneMemories(s.memories),
		Points:        s.points,
		PurchasedTips: append([]string{}, s.tips...),
	}
}

// commitLocked advances the version after a mutation and returns the state
// to publish.
func (s *Store) commitLocked() models.Snapshot {
	s.version++
	return s.snapshotLocked()
}

func (s *Store) scheduleMemoriesLocked() {
	s.scheduleJSONLocked(KeyMemories, s.memories)
}

func (s *Store) schedulePointsLocked() {
	s.writer.schedule(KeyPoints, strconv.Itoa(s.points))
}

func (s *Store) scheduleTipsLocked() {
	s.scheduleJSONLocked(KeyPurchasedTips, s.tips)
}

// scheduleJSONLocked skips the write when v cannot be encoded, leaving the
// last durable value in place.
func (s *Store) scheduleJSONLocked(key string, v any) {
	data, err := s.encode(v)
	if err != nil {
		s.logger.Error("encode failed, write skipped", "key", key, "error", err)
		return
	}
	s.writer.schedule(key, string(data))
}

func normalizeTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return models.UntitledTitle
	}
	return title
}

func cloneMemories(ms []models.Memory) []models.Memory {
	out := make([]models.Memory, len(ms))
	copy(out, ms)
	return out
}
