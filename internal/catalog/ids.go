// Package catalog is the durable data model and repository layer (spec §3,
// §4.2): entities, invariants, and narrow per-entity repositories accessed
// only through capability.DatabaseAdapter — no direct SQLite knowledge
// leaks to callers. Laid out the way the teacher's internal/sync package
// keeps its schema (migrations.go) and state (BaselineManager) together,
// generalized from "one synced file tree" to the full catalog schema.
package catalog

import "github.com/google/uuid"

// ID is the opaque 128-bit identifier every entity uses (spec §3: "All
// entities are content-addressed where possible; identifiers are opaque
// 128-bit values").
type ID uuid.UUID

// NewID generates a fresh random ID.
func NewID() ID { return ID(uuid.New()) }

// ParseID parses a canonical UUID string into an ID.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, err
	}

	return ID(u), nil
}

func (id ID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether id is the unset zero value.
func (id ID) IsZero() bool { return id == ID{} }
