package domain

import "context"

// Guarantee describes how durably a registry mutation was persisted.
type Guarantee string

// Persistence guarantee levels surfaced to callers. They are deliberately
// distinct so a deployment on a read-only export backend is never mistaken
// for a fully persisted one.
const (
	// GuaranteeDurable means the full record set was written to the backend.
	GuaranteeDurable Guarantee = "durable"
	// GuaranteeAppendOnly means the new record was appended durably but the
	// backend cannot replay deletions.
	GuaranteeAppendOnly Guarantee = "append-only"
	// GuaranteeSessionOnly means the mutation lives only in session memory.
	GuaranteeSessionOnly Guarantee = "session-only"
)

// RecordStore is the minimal contract a registry backend must satisfy.
// Load returns all records in insertion order. Save replaces the entire
// backend contents; no partial-update API is assumed.
type RecordStore interface {
	Load(ctx context.Context) ([]MouseRecord, error)
	Save(ctx context.Context, records []MouseRecord) error
	Guarantee() Guarantee
}

// AppendStore is an optional capability for backends with an append-only
// write endpoint. When a store implements it, registrations append a single
// record instead of replacing the whole table.
type AppendStore interface {
	Append(ctx context.Context, record MouseRecord) error
}
