// Package recordstore selects a registry backend implementation from the
// environment so deployments swap drivers without code changes.
package recordstore

import (
	"context"
	"fmt"
	"os"

	"mousetrack/internal/infra/recordstore/memory"
	"mousetrack/internal/infra/recordstore/postgres"
	"mousetrack/internal/infra/recordstore/sheet"
	"mousetrack/internal/infra/recordstore/sqlite"
	"mousetrack/pkg/domain"
)

// Open selects a RecordStore using environment variables.
//
//	MOUSETRACK_REGISTRY_DRIVER: sqlite|postgres|sheet|sheet-export|memory (default sqlite)
//	MOUSETRACK_REGISTRY_SQLITE_PATH: database file when driver=sqlite (default mousetrack.db)
//	MOUSETRACK_REGISTRY_POSTGRES_DSN: DSN when driver=postgres
//	MOUSETRACK_SHEET_URL: table URL when driver=sheet (GET whole table, PUT replace)
//	MOUSETRACK_SHEET_EXPORT_URL: CSV export URL when driver=sheet-export
//	MOUSETRACK_SHEET_APPEND_URL: append endpoint when driver=sheet-export (optional)
func Open(ctx context.Context) (domain.RecordStore, error) {
	driver := os.Getenv("MOUSETRACK_REGISTRY_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	switch driver {
	case "sqlite":
		return sqlite.New(os.Getenv("MOUSETRACK_REGISTRY_SQLITE_PATH"))
	case "postgres":
		return postgres.New(ctx, os.Getenv("MOUSETRACK_REGISTRY_POSTGRES_DSN"))
	case "sheet":
		return sheet.NewClient(os.Getenv("MOUSETRACK_SHEET_URL"))
	case "sheet-export":
		return sheet.NewExportClient(
			os.Getenv("MOUSETRACK_SHEET_EXPORT_URL"),
			os.Getenv("MOUSETRACK_SHEET_APPEND_URL"))
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown registry driver %s", driver)
	}
}
