// Package registry maintains the in-memory mouse registry for one logical
// session. A session is constructed from a fresh backend load, keeps a
// bounded-freshness read cache, and writes every mutation through to the
// configured record store before admitting it to memory.
package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mousetrack/pkg/domain"
)

// DefaultTTL bounds how stale a cached list may be before the next List
// triggers a backend reload.
const DefaultTTL = 5 * time.Second

// Snapshot is an insertion-ordered view of the registry. Degraded marks a
// view served while the backend was unreachable; it distinguishes "backend
// down" from a genuinely empty registry.
type Snapshot struct {
	Records  []domain.MouseRecord `json:"records"`
	Degraded bool                 `json:"degraded"`
	LoadedAt time.Time            `json:"loaded_at"`
}

// RegisterResult reports a successful registration together with the
// persistence guarantee the backend provided.
type RegisterResult struct {
	Record    domain.MouseRecord `json:"record"`
	Guarantee domain.Guarantee   `json:"guarantee"`
}

// Session owns the in-memory record set for one logical interaction stream.
// It is safe for use from a single goroutine per interaction; the internal
// mutex only protects the cache against overlapping HTTP requests.
type Session struct {
	store  domain.RecordStore
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu       sync.Mutex
	records  []domain.MouseRecord
	loadedAt time.Time
	degraded bool
}

// Option configures a Session.
type Option func(*Session)

// WithTTL overrides the cache freshness window.
func WithTTL(d time.Duration) Option { return func(s *Session) { s.ttl = d } }

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithLogger overrides the session logger.
func WithLogger(l *slog.Logger) Option { return func(s *Session) { s.logger = l } }

// NewSession constructs a session and performs the initial load. A backend
// failure does not fail construction: the session starts degraded and empty,
// matching the degraded-but-available read contract.
func NewSession(ctx context.Context, store domain.RecordStore, opts ...Option) *Session {
	s := &Session{store: store, ttl: DefaultTTL, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.mu.Lock()
	s.refreshLocked(ctx)
	s.mu.Unlock()
	return s
}

// refreshLocked reloads from the backend. On failure the previous records are
// kept (stale view) and the snapshot is flagged degraded.
func (s *Session) refreshLocked(ctx context.Context) {
	records, err := s.store.Load(ctx)
	if err != nil {
		s.degraded = true
		s.loadedAt = s.now()
		s.logger.Warn("registry backend unreachable, serving degraded view",
			slog.String("error", err.Error()),
			slog.Int("stale_records", len(s.records)))
		return
	}
	s.records = records
	s.degraded = false
	s.loadedAt = s.now()
}

// List returns the registry snapshot in insertion order, reloading from the
// backend when the cache is older than the freshness window.
func (s *Session) List(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.now().Sub(s.loadedAt) >= s.ttl {
		s.refreshLocked(ctx)
	}
	return s.snapshotLocked()
}

// Refresh forces a backend reload regardless of cache age.
func (s *Session) Refresh(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	out := make([]domain.MouseRecord, len(s.records))
	copy(out, s.records)
	return Snapshot{Records: out, Degraded: s.degraded, LoadedAt: s.loadedAt}
}

// mergeWithSessionLocked unions a fresh backend load with records only this
// session has seen. Export-style backends serve reads from a feed that can
// lag the session's own appends; mutations must still observe those writes.
func (s *Session) mergeWithSessionLocked(fresh []domain.MouseRecord) []domain.MouseRecord {
	merged := append([]domain.MouseRecord(nil), fresh...)
	known := make(map[string]struct{}, len(fresh))
	for _, rec := range fresh {
		known[rec.MouseID] = struct{}{}
	}
	for _, rec := range s.records {
		if _, ok := known[rec.MouseID]; !ok {
			merged = append(merged, rec)
		}
	}
	return merged
}

// Register validates the identifier, verifies uniqueness against a fresh
// backend read, persists, and only then admits the record to the session.
// The uniqueness check never trusts the cache: it must observe writes made
// by this session's own prior calls as well as the durable state.
func (s *Session) Register(ctx context.Context, id, remark string) (RegisterResult, error) {
	if err := domain.ValidateID(id); err != nil {
		return RegisterResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return RegisterResult{}, domain.ErrBackendUnavailable{Op: "load", Err: err}
	}
	merged := s.mergeWithSessionLocked(records)
	for _, rec := range merged {
		if rec.MouseID == id {
			return RegisterResult{}, domain.ErrDuplicateID{ID: id}
		}
	}

	record := domain.MouseRecord{
		MouseID:   id,
		Remark:    remark,
		DateAdded: domain.DateOf(s.now()),
	}
	updated := append(merged, record)

	guarantee := s.store.Guarantee()
	if appender, ok := s.store.(domain.AppendStore); ok {
		if err := appender.Append(ctx, record); err != nil {
			return RegisterResult{}, domain.ErrBackendUnavailable{Op: "append", Err: err}
		}
	} else if err := s.store.Save(ctx, updated); err != nil {
		// The record must not survive in memory when the durable write
		// failed; the caller sees the failure and may retry.
		return RegisterResult{}, domain.ErrBackendUnavailable{Op: "save", Err: err}
	}

	s.records = updated
	s.degraded = false
	s.loadedAt = s.now()
	return RegisterResult{Record: record, Guarantee: guarantee}, nil
}

// Unregister removes a record by id and persists the reduced set. Stored
// photos are untouched: deleting a mouse never cascades to its historical
// photo files. On append-only backends the deletion is session-only and the
// returned guarantee says so.
func (s *Session) Unregister(ctx context.Context, id string) (domain.Guarantee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return "", domain.ErrBackendUnavailable{Op: "load", Err: err}
	}
	merged := s.mergeWithSessionLocked(records)
	idx := -1
	for i, rec := range merged {
		if rec.MouseID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", domain.ErrNotFound{ID: id}
	}
	updated := append(append([]domain.MouseRecord(nil), merged[:idx]...), merged[idx+1:]...)

	guarantee := s.store.Guarantee()
	if _, appendOnly := s.store.(domain.AppendStore); appendOnly {
		guarantee = domain.GuaranteeSessionOnly
	} else if err := s.store.Save(ctx, updated); err != nil {
		return "", domain.ErrBackendUnavailable{Op: "save", Err: err}
	}

	s.records = updated
	s.degraded = false
	s.loadedAt = s.now()
	return guarantee, nil
}
