// Package httpapi exposes the mouse registry, photo uploads, and daily
// archives over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"mousetrack/internal/archive"
	"mousetrack/internal/photostore"
	"mousetrack/internal/registry"
	"mousetrack/pkg/domain"
)

// maxUploadBytes caps a single photo upload.
const maxUploadBytes = 32 << 20

// allowedExtensions lists upload file extensions accepted before decoding.
// Decoding is the real gate; the whitelist rejects obvious junk early.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Handler routes the /api/v1 surface.
type Handler struct {
	Registry *registry.Session
	Photos   *photostore.Store
	Archives *archive.Builder
	Logger   *slog.Logger
}

// NewHandler constructs the API handler.
func NewHandler(reg *registry.Session, photos *photostore.Store, archives *archive.Builder, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Registry: reg, Photos: photos, Archives: archives, Logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == "/api/v1/mice":
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleRegister(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case strings.HasPrefix(path, "/api/v1/mice/"):
		h.handleMouse(w, r, strings.TrimPrefix(path, "/api/v1/mice/"))
	case strings.HasPrefix(path, "/api/v1/archives/"):
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleArchive(w, r, strings.TrimPrefix(path, "/api/v1/archives/"))
	default:
		http.NotFound(w, r)
	}
}

// handleMouse dispatches /api/v1/mice/{id}[/photos[/{side}]].
func (h *Handler) handleMouse(w http.ResponseWriter, r *http.Request, remainder string) {
	segments := strings.Split(remainder, "/")
	id := segments[0]
	switch {
	case len(segments) == 1:
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleUnregister(w, r, id)
	case len(segments) == 2 && segments[1] == "photos":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handlePairStatus(w, r, id)
	case len(segments) == 3 && segments[1] == "photos":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleUpload(w, r, id, segments[2])
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	snap := h.Registry.List(r.Context())
	mice := snap.Records
	if mice == nil {
		mice = []domain.MouseRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mice":      mice,
		"degraded":  snap.Degraded,
		"loaded_at": snap.LoadedAt,
	})
}

type registerRequest struct {
	MouseID string `json:"mouse_id"`
	Remark  string `json:"remark"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	mutation := registry.NewMutation()
	_ = mutation.Begin()
	result, err := h.Registry.Register(r.Context(), req.MouseID, req.Remark)
	if err != nil {
		_ = mutation.Fail(err)
		h.writeDomainError(w, err)
		return
	}
	_ = mutation.Persisted()
	writeJSON(w, http.StatusCreated, map[string]any{
		"mouse":     result.Record,
		"guarantee": result.Guarantee,
		"state":     mutation.State(),
	})
}

func (h *Handler) handleUnregister(w http.ResponseWriter, r *http.Request, id string) {
	mutation := registry.NewMutation()
	_ = mutation.Begin()
	guarantee, err := h.Registry.Unregister(r.Context(), id)
	if err != nil {
		_ = mutation.Fail(err)
		h.writeDomainError(w, err)
		return
	}
	_ = mutation.Persisted()
	writeJSON(w, http.StatusOK, map[string]any{
		"mouse_id":  id,
		"guarantee": guarantee,
		"state":     mutation.State(),
	})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request, id, rawSide string) {
	side, err := domain.ParseSide(rawSide)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}
	// The mouse must be registered before photos attach to it.
	if !h.mouseRegistered(r, id) {
		h.writeDomainError(w, domain.ErrNotFound{ID: id})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'photo' required")
		return
	}
	defer file.Close()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file extension %q", ext))
		return
	}

	if _, err := h.Photos.Save(r.Context(), date, id, side, file); err != nil {
		h.writeDomainError(w, err)
		return
	}
	photosStoredTotal.WithLabelValues(string(side)).Inc()
	slots, err := h.Photos.Slots(date, id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pairStatusPayload(id, date, slots))
}

func (h *Handler) handlePairStatus(w http.ResponseWriter, r *http.Request, id string) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}
	slots, err := h.Photos.Slots(date, id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pairStatusPayload(id, date, slots))
}

func pairStatusPayload(id string, date domain.Date, slots domain.PairSlots) map[string]any {
	return map[string]any{
		"mouse_id": id,
		"date":     date,
		"left":     slots.Left != "",
		"right":    slots.Right != "",
		"complete": slots.Complete(),
	}
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request, rawDate string) {
	date, err := domain.ParseDate(rawDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := h.Archives.BuildDaily(date)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	archivesBuiltTotal.Inc()
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.Name(date)))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// dateParam reads the optional ?date= query value, defaulting to today.
func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request) (domain.Date, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return domain.Today(), true
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return date, true
}

func (h *Handler) mouseRegistered(r *http.Request, id string) bool {
	snap := h.Registry.List(r.Context())
	for _, rec := range snap.Records {
		if rec.MouseID == id {
			return true
		}
	}
	return false
}

// writeDomainError maps domain errors onto HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var (
		invalid     domain.ErrInvalidID
		duplicate   domain.ErrDuplicateID
		notFound    domain.ErrNotFound
		decode      domain.ErrDecode
		unavailable domain.ErrBackendUnavailable
		emptyDay    domain.ErrEmptyDay
	)
	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &decode):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &duplicate):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &emptyDay):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &unavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.Logger.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
