// Package sync is the sync orchestrator (spec §4.3): a durable job state
// machine, a scan queue of claimable work items, and a conflict resolver,
// coordinated so that at most one job runs per provider kind at a time.
// Grounded on the teacher's internal/sync package (Engine/Orchestrator/
// ConflictHandler/WorkerPool), generalized from "one synced file tree" to
// "one catalog of tracks gathered from many providers".
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/tonimelisma/musiccore/internal/catalog"
)

// ConflictPolicy selects how the resolver treats two Track rows that
// normalize to the same (title, artist) but come from different
// providers (spec §9 Open Questions: default is PreferNewestProviderModified).
type ConflictPolicy string

const (
	// PreferNewestProviderModified keeps the incoming track's metadata
	// when its ProviderModifiedAt is newer than the existing match's,
	// otherwise leaves the existing row untouched. This is the default —
	// resolved per spec §9's conflict-resolution Open Question.
	PreferNewestProviderModified ConflictPolicy = "PreferNewestProviderModified"
	// KeepBoth never merges; both tracks remain as independent catalog
	// rows (mirrors the teacher's keep-both file-conflict policy).
	KeepBoth ConflictPolicy = "KeepBoth"
)

// ConflictDecision is what the resolver decided to do about one
// candidate duplicate pair.
type ConflictDecision string

const (
	DecisionMerged    ConflictDecision = "Merged"
	DecisionKeptBoth  ConflictDecision = "KeptBoth"
	DecisionNoChange  ConflictDecision = "NoChange"
)

// ResolveResult is the outcome of resolving one duplicate candidate.
type ResolveResult struct {
	Decision    ConflictDecision
	Existing    catalog.Track
	Incoming    catalog.Track
	MergedTrack *catalog.Track // set when Decision == Merged
}

// ConflictHandler applies policy to duplicate Track candidates discovered
// during a sync cycle. Stateless: it never touches the repositories
// itself — the caller commits MergedTrack (or leaves both rows as-is).
type ConflictHandler struct {
	policy ConflictPolicy
}

func NewConflictHandler(policy ConflictPolicy) *ConflictHandler {
	if policy == "" {
		policy = PreferNewestProviderModified
	}

	return &ConflictHandler{policy: policy}
}

// IsDuplicateCandidate reports whether incoming and existing are
// candidates for conflict resolution: they normalize to the same title
// and (when both known) the same artist, but originate from different
// providers.
func IsDuplicateCandidate(existing, incoming catalog.Track) bool {
	if existing.ProviderID == incoming.ProviderID {
		return false
	}

	if existing.NormalizedTitle != incoming.NormalizedTitle {
		return false
	}

	if existing.ArtistID != nil && incoming.ArtistID != nil {
		return *existing.ArtistID == *incoming.ArtistID
	}

	return true
}

// Resolve applies h's policy to one duplicate candidate pair.
func (h *ConflictHandler) Resolve(_ context.Context, existing, incoming catalog.Track) (*ResolveResult, error) {
	switch h.policy {
	case KeepBoth:
		return &ResolveResult{Decision: DecisionKeptBoth, Existing: existing, Incoming: incoming}, nil

	case PreferNewestProviderModified:
		return h.resolveNewest(existing, incoming)

	default:
		return nil, fmt.Errorf("sync: unknown conflict policy %q", h.policy)
	}
}

func (h *ConflictHandler) resolveNewest(existing, incoming catalog.Track) (*ResolveResult, error) {
	existingModified := timeOrZero(existing.ProviderModifiedAt)
	incomingModified := timeOrZero(incoming.ProviderModifiedAt)

	if !incomingModified.After(existingModified) {
		return &ResolveResult{Decision: DecisionNoChange, Existing: existing, Incoming: incoming}, nil
	}

	merged := existing
	merged.Title = incoming.Title
	merged.NormalizedTitle = incoming.NormalizedTitle
	merged.Hash = incoming.Hash
	merged.DurationMs = incoming.DurationMs
	merged.Bitrate = incoming.Bitrate
	merged.SampleRate = incoming.SampleRate
	merged.Channels = incoming.Channels
	merged.Format = incoming.Format
	merged.FileSize = incoming.FileSize
	merged.MimeType = incoming.MimeType
	merged.ProviderModifiedAt = incoming.ProviderModifiedAt
	merged.UpdatedAt = time.Now().UTC()

	return &ResolveResult{Decision: DecisionMerged, Existing: existing, Incoming: incoming, MergedTrack: &merged}, nil
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}

	return *t
}
