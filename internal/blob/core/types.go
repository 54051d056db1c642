// Package core defines the blob storage contract shared by the offsite
// mirror backends. It lives below the driver implementations so the
// top-level blob package can wrap them without an import cycle.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a blob backend driver.
type Driver string

// Supported drivers.
const (
	// DriverFilesystem mirrors into a local directory.
	DriverFilesystem Driver = "fs"
	// DriverS3 mirrors into an S3-compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory is the in-memory test driver.
	DriverMemory Driver = "memory"
)

// ErrNotFound indicates the requested key is absent.
var ErrNotFound = errors.New("blob not found")

// Info describes a stored object.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Store is the interface mirror backends implement. Put overwrites an
// existing key: mirrored photos follow the same last-write-wins contract as
// their primary copies.
type Store interface {
	Driver() Driver
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Delete(ctx context.Context, key string) (bool, error)
}
