// Package blob re-exports the blob storage abstractions and constructs the
// configured driver. Photos and published archives are mirrored through a
// Store; other packages must depend on this interface, never on the driver
// packages directly.
package blob

import (
	"mousetrack/internal/blob/core"
	"mousetrack/internal/infra/blob/fs"
	"mousetrack/internal/infra/blob/memory"
)

type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// Info describes stored object metadata.
	Info = core.Info
	// Store is the interface for blob storage backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

// ErrNotFound indicates the requested key is absent.
var ErrNotFound = core.ErrNotFound

// NewFilesystem returns a filesystem-backed store rooted at the given path.
func NewFilesystem(root string) (Store, error) { return fs.New(root) }

// NewMemory returns an in-memory store for tests.
func NewMemory() Store { return memory.New() }
