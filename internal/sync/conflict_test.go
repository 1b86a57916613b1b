package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/musiccore/internal/catalog"
)

var providerA, providerB = catalog.NewID(), catalog.NewID()

func idPtr(id catalog.ID) *catalog.ID { return &id }

func track(providerID catalog.ID, normalizedTitle string, artistID *catalog.ID, modifiedAt *time.Time) catalog.Track {
	return catalog.Track{
		ProviderID:         providerID,
		NormalizedTitle:    normalizedTitle,
		ArtistID:           artistID,
		ProviderModifiedAt: modifiedAt,
	}
}

func TestIsDuplicateCandidate(t *testing.T) {
	artist1 := idPtr(catalog.NewID())
	artist2 := idPtr(catalog.NewID())

	tests := []struct {
		name     string
		existing catalog.Track
		incoming catalog.Track
		want     bool
	}{
		{
			name:     "same provider is never a duplicate",
			existing: track(providerA, "song", nil, nil),
			incoming: track(providerA, "song", nil, nil),
			want:     false,
		},
		{
			name:     "different title is not a duplicate",
			existing: track(providerA, "song a", nil, nil),
			incoming: track(providerB, "song b", nil, nil),
			want:     false,
		},
		{
			name:     "same title different provider, no artist known",
			existing: track(providerA, "song", nil, nil),
			incoming: track(providerB, "song", nil, nil),
			want:     true,
		},
		{
			name:     "same title, same artist, different provider",
			existing: track(providerA, "song", artist1, nil),
			incoming: track(providerB, "song", artist1, nil),
			want:     true,
		},
		{
			name:     "same title, different artist, different provider",
			existing: track(providerA, "song", artist1, nil),
			incoming: track(providerB, "song", artist2, nil),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateCandidate(tt.existing, tt.incoming))
		})
	}
}

func TestConflictHandlerKeepBoth(t *testing.T) {
	h := NewConflictHandler(KeepBoth)

	existing := track(providerA, "song", nil, nil)
	incoming := track(providerB, "song", nil, nil)

	result, err := h.Resolve(context.Background(), existing, incoming)
	require.NoError(t, err)
	assert.Equal(t, DecisionKeptBoth, result.Decision)
	assert.Nil(t, result.MergedTrack)
}

func TestConflictHandlerPreferNewestMerges(t *testing.T) {
	h := NewConflictHandler(PreferNewestProviderModified)

	older := timePtr(time.Now().Add(-time.Hour))
	newer := timePtr(time.Now())

	existing := track(providerA, "song", nil, older)
	existing.Title = "Old Title"
	incoming := track(providerB, "song", nil, newer)
	incoming.Title = "New Title"

	result, err := h.Resolve(context.Background(), existing, incoming)
	require.NoError(t, err)
	require.Equal(t, DecisionMerged, result.Decision)
	require.NotNil(t, result.MergedTrack)
	assert.Equal(t, "New Title", result.MergedTrack.Title)
}

func TestConflictHandlerPreferNewestNoChangeWhenOlder(t *testing.T) {
	h := NewConflictHandler(PreferNewestProviderModified)

	older := timePtr(time.Now().Add(-time.Hour))
	newer := timePtr(time.Now())

	existing := track(providerA, "song", nil, newer)
	incoming := track(providerB, "song", nil, older)

	result, err := h.Resolve(context.Background(), existing, incoming)
	require.NoError(t, err)
	assert.Equal(t, DecisionNoChange, result.Decision)
	assert.Nil(t, result.MergedTrack)
}

func TestConflictHandlerDefaultsPolicy(t *testing.T) {
	h := NewConflictHandler("")
	assert.Equal(t, PreferNewestProviderModified, h.policy)
}

func TestConflictHandlerUnknownPolicy(t *testing.T) {
	h := &ConflictHandler{policy: "bogus"}

	_, err := h.Resolve(context.Background(), track(providerA, "song", nil, nil), track(providerB, "song", nil, nil))
	assert.Error(t, err)
}
