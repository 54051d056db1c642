// Package archive builds the daily zip of ear photos. The archive is
// assembled entirely in memory and is deterministic: the same day's photo
// tree always yields byte-identical output, so re-downloads and mirrored
// copies can be compared directly.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"mousetrack/internal/blob"
	"mousetrack/internal/photostore"
	"mousetrack/pkg/domain"
)

// Name returns the canonical archive file name for a day.
func Name(date domain.Date) string {
	return fmt.Sprintf("mice_%s.zip", date)
}

// Key returns the blob key an archive is published under.
func Key(date domain.Date) string {
	return "archives/" + Name(date)
}

// Builder assembles daily archives from a photo store.
type Builder struct {
	photos *photostore.Store
}

// New returns a Builder over the given photo store.
func New(photos *photostore.Store) *Builder {
	return &Builder{photos: photos}
}

// BuildDaily returns the zip archive of every photo saved on date. Entries
// are ordered lexicographically by their path relative to the day directory,
// and entry metadata is fixed to the day itself, which keeps the output
// byte-identical across builds. A day with no photos yields ErrEmptyDay.
func (b *Builder) BuildDaily(date domain.Date) ([]byte, error) {
	files, err := b.photos.DayFiles(date)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.ErrEmptyDay{Date: date}
	}
	day, err := time.Parse("2006-01-02", string(date))
	if err != nil {
		return nil, err
	}
	modified := day.UTC()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Rel,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, err
		}
		src, err := os.Open(f.Abs)
		if err != nil {
			return nil, err
		}
		_, err = io.Copy(w, src)
		_ = src.Close()
		if err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Publish builds the day's archive and uploads it to the blob store under
// archives/. The key lives outside the photo tree, so a published archive
// can never end up inside a later build of itself.
func (b *Builder) Publish(ctx context.Context, date domain.Date, store blob.Store) (string, error) {
	if store == nil {
		return "", fmt.Errorf("no blob store configured")
	}
	data, err := b.BuildDaily(date)
	if err != nil {
		return "", err
	}
	key := Key(date)
	if _, err := store.Put(ctx, key, bytes.NewReader(data), "application/zip"); err != nil {
		return "", err
	}
	return key, nil
}
