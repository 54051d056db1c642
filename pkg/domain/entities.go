// Package domain defines the core entities, value types, and persistence
// contracts used by mousetrack.
package domain

import (
	"fmt"
	"strings"
)

// Side identifies which ear a photograph captures.
type Side string

// Supported photo sides. A pair is complete when both exist for a date.
const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Sides lists both sides in canonical order.
func Sides() []Side { return []Side{SideLeft, SideRight} }

// ParseSide validates a side string.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(s)) {
	case SideLeft:
		return SideLeft, nil
	case SideRight:
		return SideRight, nil
	}
	return "", fmt.Errorf("unknown side %q (expected left or right)", s)
}

// MouseRecord is a registry entry for a single mouse. MouseID is the unique,
// case-sensitive primary key. DateAdded is set at registration and never
// mutated afterwards.
type MouseRecord struct {
	MouseID   string `json:"mouse_id"`
	Remark    string `json:"remark,omitempty"`
	DateAdded Date   `json:"date_added"`
}

// ValidateID rejects identifiers that are empty or unsafe as a path segment.
// Identifiers become directory and file name components of the deterministic
// photo layout, so separators and traversal sequences are malformed ids.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID{ID: id, Reason: "empty"}
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return ErrInvalidID{ID: id, Reason: "path-unsafe"}
	}
	return nil
}

// PairSlots reports the stored photo paths for one mouse on one date.
// An empty path means the side has not been captured yet.
type PairSlots struct {
	Left  string `json:"left,omitempty"`
	Right string `json:"right,omitempty"`
}

// Complete reports pairing completeness: both sides captured.
func (p PairSlots) Complete() bool { return p.Left != "" && p.Right != "" }
