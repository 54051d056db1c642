package postgres

import (
	"context"
	"os"
	"testing"

	"mousetrack/pkg/domain"
)

// Integration coverage requires a reachable server; set
// MOUSETRACK_TEST_POSTGRES_DSN to run it.
func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("MOUSETRACK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MOUSETRACK_TEST_POSTGRES_DSN not set")
	}
	s, err := New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newIntegrationStore(t)

	want := []domain.MouseRecord{
		{MouseID: "M002", Remark: "strain B", DateAdded: "2026-08-28"},
		{MouseID: "M001", Remark: "strain A", DateAdded: "2026-08-29"},
	}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].MouseID != "M002" || got[1].MouseID != "M001" {
		t.Fatalf("unexpected records %+v", got)
	}

	if err := s.Save(ctx, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("table not cleared: %v %v", got, err)
	}
}

func TestNewRejectsUnreachableServer(t *testing.T) {
	if testing.Short() {
		t.Skip("dial timeout in short mode")
	}
	_, err := New(context.Background(), "postgres://127.0.0.1:1/mousetrack?sslmode=disable&connect_timeout=1")
	if err == nil {
		t.Fatalf("expected connection error")
	}
}

func TestGuarantee(t *testing.T) {
	s := &Store{}
	if g := s.Guarantee(); g != domain.GuaranteeDurable {
		t.Fatalf("guarantee = %s", g)
	}
}
