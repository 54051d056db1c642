package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mousetrack/pkg/domain"
)

// stubStore is a controllable RecordStore for session tests.
type stubStore struct {
	records   []domain.MouseRecord
	loadErr   error
	saveErr   error
	loads     int
	saves     int
	guarantee domain.Guarantee
}

func (s *stubStore) Load(context.Context) ([]domain.MouseRecord, error) {
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]domain.MouseRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *stubStore) Save(_ context.Context, records []domain.MouseRecord) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records = append([]domain.MouseRecord(nil), records...)
	return nil
}

func (s *stubStore) Guarantee() domain.Guarantee {
	if s.guarantee == "" {
		return domain.GuaranteeDurable
	}
	return s.guarantee
}

func newTestSession(t *testing.T, store domain.RecordStore) *Session {
	t.Helper()
	return NewSession(context.Background(), store, WithTTL(time.Minute))
}

func TestRegisterThenListIncludesRecordOnce(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{}
	s := newTestSession(t, store)

	res, err := s.Register(ctx, "M001", "strain A")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Record.MouseID != "M001" || res.Record.Remark != "strain A" {
		t.Fatalf("unexpected record %+v", res.Record)
	}
	if res.Record.DateAdded != domain.Today() {
		t.Fatalf("date_added = %s, want today", res.Record.DateAdded)
	}
	if res.Guarantee != domain.GuaranteeDurable {
		t.Fatalf("guarantee = %s, want durable", res.Guarantee)
	}

	snap := s.List(ctx)
	if len(snap.Records) != 1 || snap.Records[0].MouseID != "M001" {
		t.Fatalf("unexpected snapshot %+v", snap.Records)
	}
	if snap.Degraded {
		t.Fatalf("snapshot unexpectedly degraded")
	}

	_, err = s.Register(ctx, "M001", "again")
	var dup domain.ErrDuplicateID
	if !errors.As(err, &dup) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if got := len(s.List(ctx).Records); got != 1 {
		t.Fatalf("duplicate register changed record count to %d", got)
	}
}

func TestRegisterRejectsInvalidIDBeforeDuplicateCheck(t *testing.T) {
	store := &stubStore{}
	s := newTestSession(t, store)
	loadsBefore := store.loads

	_, err := s.Register(context.Background(), "", "x")
	var invalid domain.ErrInvalidID
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if store.loads != loadsBefore {
		t.Fatalf("invalid id still hit the backend")
	}
}

func TestRegisterFailedSaveKeepsNoRecord(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{}
	s := newTestSession(t, store)

	store.saveErr = fmt.Errorf("sheet write refused")
	_, err := s.Register(ctx, "M002", "")
	var unavailable domain.ErrBackendUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	store.saveErr = nil
	if got := len(s.List(ctx).Records); got != 0 {
		t.Fatalf("unpersisted record survived in memory: %d records", got)
	}
}

func TestUnregister(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{}
	s := newTestSession(t, store)
	if _, err := s.Register(ctx, "M001", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := s.Unregister(ctx, "M404"); err == nil {
		t.Fatalf("expected ErrNotFound")
	} else {
		var nf domain.ErrNotFound
		if !errors.As(err, &nf) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	}
	if got := len(s.List(ctx).Records); got != 1 {
		t.Fatalf("failed unregister mutated the registry: %d records", got)
	}

	g, err := s.Unregister(ctx, "M001")
	if err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if g != domain.GuaranteeDurable {
		t.Fatalf("guarantee = %s, want durable", g)
	}
	if got := len(s.List(ctx).Records); got != 0 {
		t.Fatalf("record still listed after unregister")
	}
}

func TestListDegradesWhenBackendUnreachable(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{records: []domain.MouseRecord{{MouseID: "M001", DateAdded: "2026-08-29"}}}

	clock := time.Now()
	s := NewSession(ctx, store, WithTTL(time.Second), WithClock(func() time.Time { return clock }))

	snap := s.List(ctx)
	if snap.Degraded || len(snap.Records) != 1 {
		t.Fatalf("unexpected initial snapshot %+v", snap)
	}

	store.loadErr = fmt.Errorf("connection refused")
	clock = clock.Add(2 * time.Second)
	snap = s.List(ctx)
	if !snap.Degraded {
		t.Fatalf("snapshot not flagged degraded")
	}
	// Stale records stay visible rather than masquerading as an empty registry.
	if len(snap.Records) != 1 {
		t.Fatalf("degraded view lost stale records: %+v", snap.Records)
	}
}

func TestListHonorsFreshnessWindow(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{}
	clock := time.Now()
	s := NewSession(ctx, store, WithTTL(10*time.Second), WithClock(func() time.Time { return clock }))
	loadsAfterInit := store.loads

	s.List(ctx)
	s.List(ctx)
	if store.loads != loadsAfterInit {
		t.Fatalf("fresh cache still reloaded: %d extra loads", store.loads-loadsAfterInit)
	}

	clock = clock.Add(11 * time.Second)
	s.List(ctx)
	if store.loads != loadsAfterInit+1 {
		t.Fatalf("stale cache not reloaded")
	}
}

// appendStubStore simulates the read-only export backend with a separate
// append endpoint.
type appendStubStore struct {
	stubStore
	appended []domain.MouseRecord
}

func (s *appendStubStore) Append(_ context.Context, record domain.MouseRecord) error {
	s.appended = append(s.appended, record)
	s.records = append(s.records, record)
	return nil
}

func (s *appendStubStore) Save(context.Context, []domain.MouseRecord) error { return nil }

func (s *appendStubStore) Guarantee() domain.Guarantee { return domain.GuaranteeAppendOnly }

// lagAppendStore simulates an export feed that has not yet caught up with
// the session's own appends: Append accepts records but Load never serves
// them back.
type lagAppendStore struct {
	stubStore
	appended []domain.MouseRecord
}

func (s *lagAppendStore) Append(_ context.Context, record domain.MouseRecord) error {
	s.appended = append(s.appended, record)
	return nil
}

func (s *lagAppendStore) Save(context.Context, []domain.MouseRecord) error { return nil }

func (s *lagAppendStore) Guarantee() domain.Guarantee { return domain.GuaranteeAppendOnly }

func TestRegisterSeesOwnWritesOnLaggingBackend(t *testing.T) {
	ctx := context.Background()
	store := &lagAppendStore{}
	s := newTestSession(t, store)

	if _, err := s.Register(ctx, "M001", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	// The export feed still serves an empty table; uniqueness must hold anyway.
	_, err := s.Register(ctx, "M001", "again")
	var dup domain.ErrDuplicateID
	if !errors.As(err, &dup) {
		t.Fatalf("expected ErrDuplicateID on lagging backend, got %v", err)
	}
	if len(store.appended) != 1 {
		t.Fatalf("duplicate register reached the append endpoint: %d appends", len(store.appended))
	}

	if _, err := s.Register(ctx, "M002", ""); err != nil {
		t.Fatalf("register second id: %v", err)
	}
	snap := s.List(ctx)
	ids := make(map[string]bool, len(snap.Records))
	for _, rec := range snap.Records {
		ids[rec.MouseID] = true
	}
	if !ids["M001"] || !ids["M002"] {
		t.Fatalf("session lost its own writes: %+v", snap.Records)
	}
}

func TestAppendOnlyBackendGuarantees(t *testing.T) {
	ctx := context.Background()
	store := &appendStubStore{}
	s := newTestSession(t, store)

	res, err := s.Register(ctx, "M001", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Guarantee != domain.GuaranteeAppendOnly {
		t.Fatalf("register guarantee = %s, want append-only", res.Guarantee)
	}
	if len(store.appended) != 1 {
		t.Fatalf("append endpoint not used")
	}

	g, err := s.Unregister(ctx, "M001")
	if err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if g != domain.GuaranteeSessionOnly {
		t.Fatalf("unregister guarantee = %s, want session-only", g)
	}
}
