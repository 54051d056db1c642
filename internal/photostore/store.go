// Package photostore persists ear photos on the local filesystem using a
// deterministic layout:
//
//	{root}/{date}/{mouse_id}/{mouse_id}_{side}.jpg
//
// Uploads are decoded and re-encoded as JPEG, so the tree only ever holds
// valid image files, and a re-upload of the same slot replaces the previous
// photo. An optional blob mirror receives a best-effort copy of every saved
// photo; mirror failures are logged, never fatal.
package photostore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "image/gif"
	_ "image/png"

	"mousetrack/internal/blob"
	"mousetrack/pkg/domain"
)

const jpegQuality = 90

// Store writes and inspects photos under a root directory.
type Store struct {
	root   string
	mirror blob.Store
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithMirror attaches a blob store that receives a copy of each saved photo.
func WithMirror(m blob.Store) Option {
	return func(s *Store) { s.mirror = m }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a photo store rooted at root, creating the directory if needed.
func New(root string, opts ...Option) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("photo root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	s := &Store{root: root, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the photo root directory.
func (s *Store) Root() string { return s.root }

// FileName returns the canonical file name for one side of a mouse's pair.
func FileName(mouseID string, side domain.Side) string {
	return fmt.Sprintf("%s_%s.jpg", mouseID, side)
}

// PathFor returns the absolute path a photo occupies, whether or not it
// exists yet. The same inputs always yield the same path.
func (s *Store) PathFor(date domain.Date, mouseID string, side domain.Side) string {
	return filepath.Join(s.root, string(date), mouseID, FileName(mouseID, side))
}

// mirrorKey mirrors the on-disk layout under a photos/ prefix.
func mirrorKey(date domain.Date, mouseID string, side domain.Side) string {
	return fmt.Sprintf("photos/%s/%s/%s", date, mouseID, FileName(mouseID, side))
}

// Save decodes the uploaded image, re-encodes it as JPEG and writes it to the
// slot for (date, mouseID, side), replacing any previous photo there. The
// returned path is the photo's location on disk.
func (s *Store) Save(ctx context.Context, date domain.Date, mouseID string, side domain.Side, r io.Reader) (string, error) {
	if err := domain.ValidateID(mouseID); err != nil {
		return "", err
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return "", domain.ErrDecode{Err: err}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode photo: %w", err)
	}

	path := s.PathFor(date, mouseID, side)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	// Temp file plus rename keeps readers from observing a half-written photo.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}

	if s.mirror != nil {
		key := mirrorKey(date, mouseID, side)
		if _, err := s.mirror.Put(ctx, key, bytes.NewReader(buf.Bytes()), "image/jpeg"); err != nil {
			s.logger.Warn("photo mirror failed", "key", key, "error", err)
		}
	}
	return path, nil
}

// Slots reports which side photos exist for a mouse on a day. Absent sides
// are empty strings; present sides hold the photo path.
func (s *Store) Slots(date domain.Date, mouseID string) (domain.PairSlots, error) {
	if err := domain.ValidateID(mouseID); err != nil {
		return domain.PairSlots{}, err
	}
	var slots domain.PairSlots
	for _, side := range domain.Sides() {
		path := s.PathFor(date, mouseID, side)
		if _, err := os.Stat(path); err == nil {
			switch side {
			case domain.SideLeft:
				slots.Left = path
			case domain.SideRight:
				slots.Right = path
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return domain.PairSlots{}, err
		}
	}
	return slots, nil
}

// IsComplete reports whether both sides exist for a mouse on a day.
func (s *Store) IsComplete(date domain.Date, mouseID string) (bool, error) {
	slots, err := s.Slots(date, mouseID)
	if err != nil {
		return false, err
	}
	return slots.Complete(), nil
}

// DayFile is one photo within a day's tree.
type DayFile struct {
	Rel string // slash-separated path relative to the day directory
	Abs string
}

// DayFiles lists every photo saved on the given day, sorted by relative
// path. A day with no photos yields an empty slice and no error.
func (s *Store) DayFiles(date domain.Date) ([]DayFile, error) {
	dayRoot := filepath.Join(s.root, string(date))
	var files []DayFile
	err := filepath.WalkDir(dayRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dayRoot {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(dayRoot, path)
		if err != nil {
			return err
		}
		files = append(files, DayFile{Rel: filepath.ToSlash(rel), Abs: path})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}
