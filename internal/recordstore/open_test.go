package recordstore

import (
	"context"
	"path/filepath"
	"testing"

	"mousetrack/pkg/domain"
)

func TestOpenMemory(t *testing.T) {
	t.Setenv("MOUSETRACK_REGISTRY_DRIVER", "memory")
	store, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Guarantee() != domain.GuaranteeSessionOnly {
		t.Fatalf("guarantee = %s", store.Guarantee())
	}
}

func TestOpenSQLiteDefaultDriver(t *testing.T) {
	t.Setenv("MOUSETRACK_REGISTRY_DRIVER", "")
	t.Setenv("MOUSETRACK_REGISTRY_SQLITE_PATH", filepath.Join(t.TempDir(), "registry.db"))
	store, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Guarantee() != domain.GuaranteeDurable {
		t.Fatalf("guarantee = %s", store.Guarantee())
	}
}

func TestOpenSheetExport(t *testing.T) {
	t.Setenv("MOUSETRACK_REGISTRY_DRIVER", "sheet-export")
	t.Setenv("MOUSETRACK_SHEET_EXPORT_URL", "http://sheet.local/export")
	t.Setenv("MOUSETRACK_SHEET_APPEND_URL", "")
	store, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Guarantee() != domain.GuaranteeAppendOnly {
		t.Fatalf("guarantee = %s", store.Guarantee())
	}
	if _, ok := store.(domain.AppendStore); !ok {
		t.Fatalf("export store does not implement AppendStore")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	t.Setenv("MOUSETRACK_REGISTRY_DRIVER", "oracle")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestOpenSheetRequiresURL(t *testing.T) {
	t.Setenv("MOUSETRACK_REGISTRY_DRIVER", "sheet")
	t.Setenv("MOUSETRACK_SHEET_URL", "")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected error without sheet url")
	}
}
