package sqlrepo

import (
	"context"
	"log/slog"

	"github.com/tonimelisma/musiccore/internal/catalog"
)

// OpenRepositories opens (creating and migrating if necessary) the native SQLite
// catalog database at path and returns both the raw *Adapter — callers
// needing direct capability.DatabaseAdapter access (e.g. to register a
// host's own maintenance commands) — and a catalog.Repositories bundle
// wired over it. This is the single constructor CoreService's New uses;
// grounded on the teacher's SQLiteStore constructor which does the same
// "open, migrate, build the stores on top" sequencing in one call.
func OpenRepositories(ctx context.Context, path string, logger *slog.Logger) (*Adapter, catalog.Repositories, error) {
	adapter, err := Open(ctx, path, logger)
	if err != nil {
		return nil, catalog.Repositories{}, err
	}

	repos := catalog.Repositories{
		Providers:    NewProviderRepo(adapter),
		Tracks:       NewTrackRepo(adapter),
		Albums:       NewAlbumRepo(adapter),
		Artists:      NewArtistRepo(adapter),
		Playlists:    NewPlaylistRepo(adapter),
		Artworks:     NewArtworkRepo(adapter),
		Lyrics:       NewLyricsRepo(adapter),
		Folders:      NewFolderRepo(adapter),
		CachedTracks: NewCachedTrackRepo(adapter),
		SyncJobs:     NewSyncJobRepo(adapter),
		WorkItems:    NewWorkItemRepo(adapter),
		Aliases:      NewTrackAliasRepo(adapter),
	}

	return adapter, repos, nil
}
