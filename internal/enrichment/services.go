package enrichment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/tonimelisma/musiccore/internal/catalog"
)

// ArtworkService resolves a track/album's artwork via its configured
// ArtworkProvider and persists the result as a content-addressed
// catalog.Artwork row, wiring it back onto the track.
type ArtworkService struct {
	provider ArtworkProvider
	artworks catalog.ArtworkRepository
	tracks   catalog.TrackRepository
}

func NewArtworkService(provider ArtworkProvider, artworks catalog.ArtworkRepository, tracks catalog.TrackRepository) *ArtworkService {
	return &ArtworkService{provider: provider, artworks: artworks, tracks: tracks}
}

// Enrich fetches artwork for track and links it, deduplicating against
// any existing Artwork row with the same content hash.
func (s *ArtworkService) Enrich(ctx context.Context, track catalog.Track, artistName, albumName string) error {
	result, err := s.provider.FetchArtwork(ctx, artistName, albumName)
	if err != nil {
		return fmt.Errorf("enrichment: fetch artwork for track %s: %w", track.ID, err)
	}

	if result == nil {
		return nil
	}

	hash := contentHash(result.ImageData)

	existing, err := s.artworks.FindByHash(ctx, hash)
	if err != nil {
		return err
	}

	artworkID := catalog.NewID()

	if existing != nil {
		artworkID = existing.ID
	} else {
		art := &catalog.Artwork{
			ID:         artworkID,
			Hash:       hash,
			MimeType:   result.MimeType,
			BinaryBlob: result.ImageData,
			FileSize:   int64(len(result.ImageData)),
			Source:     result.Source,
			CreatedAt:  time.Now().UTC(),
		}

		if err := s.artworks.Insert(ctx, art); err != nil {
			return err
		}
	}

	track.ArtworkID = &artworkID

	return s.tracks.Update(ctx, &track)
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// LyricsService resolves and persists a track's lyrics.
type LyricsService struct {
	provider LyricsProvider
	lyrics   catalog.LyricsRepository
	tracks   catalog.TrackRepository
}

func NewLyricsService(provider LyricsProvider, lyrics catalog.LyricsRepository, tracks catalog.TrackRepository) *LyricsService {
	return &LyricsService{provider: provider, lyrics: lyrics, tracks: tracks}
}

// Enrich fetches lyrics for track and upserts the Lyrics row, updating
// the track's LyricsStatus to reflect the outcome.
func (s *LyricsService) Enrich(ctx context.Context, track catalog.Track, artistName, title string) error {
	result, err := s.provider.FetchLyrics(ctx, artistName, title, track.DurationMs)

	status := catalog.LyricsAvailable

	if err != nil || result == nil {
		status = catalog.LyricsUnavailable
		if err != nil {
			status = catalog.LyricsFailed
		}

		track.LyricsStatus = status

		if uErr := s.tracks.Update(ctx, &track); uErr != nil {
			return uErr
		}

		return err
	}

	now := time.Now().UTC()

	if err := s.lyrics.Upsert(ctx, &catalog.Lyrics{
		TrackID:       track.ID,
		Source:        result.Source,
		Synced:        result.Synced,
		Body:          result.Body,
		LastCheckedAt: now,
		CreatedAt:     now,
	}); err != nil {
		return err
	}

	track.LyricsStatus = catalog.LyricsAvailable

	return s.tracks.Update(ctx, &track)
}
