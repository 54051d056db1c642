package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"mousetrack/internal/blob/core"
)

func TestPutGetOverwrite(t *testing.T) {
	store := New()
	ctx := context.Background()

	if _, err := store.Put(ctx, "a.txt", strings.NewReader("first"), "text/plain"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "a.txt", strings.NewReader("second"), "text/plain"); err != nil {
		t.Fatalf("put: %v", err)
	}
	rc, err := store.Get(ctx, "a.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	if string(b) != "second" {
		t.Fatalf("overwrite not applied, got %q", b)
	}
}

func TestGetMissingKey(t *testing.T) {
	store := New()
	if _, err := store.Get(context.Background(), "absent"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPrefixAndOrder(t *testing.T) {
	store := New()
	ctx := context.Background()
	for _, key := range []string{"photos/b", "photos/a", "archives/z"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), ""); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "photos/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "photos/a" || infos[1].Key != "photos/b" {
		t.Fatalf("unexpected listing: %v", infos)
	}
}

func TestDeleteReportsExistence(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Put(ctx, "a", strings.NewReader("x"), ""); err != nil {
		t.Fatalf("put: %v", err)
	}
	if existed, err := store.Delete(ctx, "a"); err != nil || !existed {
		t.Fatalf("delete existing: existed=%v err=%v", existed, err)
	}
	if existed, err := store.Delete(ctx, "a"); err != nil || existed {
		t.Fatalf("delete absent: existed=%v err=%v", existed, err)
	}
}
