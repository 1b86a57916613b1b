// Package enrichment is the metadata enrichment pipeline (spec §4.6):
// provider lookups for artwork and lyrics, an artist-biography provider
// with a polite per-host rate limit, and a batched EnrichmentJob that
// sweeps the catalog for tracks missing either. Grounded on
// original_source/core-metadata/src/enrichment_job.rs for the job's
// shape (query -> batch -> bounded-concurrency fetch -> persist ->
// progress event) and providers/artist_enrichment.rs for the
// rate-limited HTTP provider pattern; wired the way the teacher wires
// its HTTP calls — through capability.HttpClient, retried via
// internal/retry rather than a hand-rolled backoff loop.
package enrichment

import (
	"context"
	"sync"
	"time"

	"github.com/tonimelisma/musiccore/internal/capability"
)

// ArtworkResult is what an artwork provider returns for a match.
type ArtworkResult struct {
	ImageData []byte
	MimeType  string
	Source    string
}

// ArtworkProvider fetches cover art for an album or track by query
// terms (artist, title).
type ArtworkProvider interface {
	FetchArtwork(ctx context.Context, artist, album string) (*ArtworkResult, error)
}

// LyricsResult is what a lyrics provider returns for a match.
type LyricsResult struct {
	Body   string
	Synced bool // true when Body is LRC-timestamped
	Source string
}

// LyricsProvider fetches lyrics for a track by (artist, title) or an
// exact duration match, the way LRCLIB's API is documented to work.
type LyricsProvider interface {
	FetchLyrics(ctx context.Context, artist, title string, durationMs int64) (*LyricsResult, error)
}

// ArtistMetadata is what ArtistEnrichmentProvider returns — mirrors the
// original's ArtistMetadata (bio, country, mbid).
type ArtistMetadata struct {
	Bio     string
	Country string
	MBID    string
}

// rateLimiter enforces a minimum delay between consecutive requests —
// ported directly from artist_enrichment.rs's RateLimiter (a
// last-request timestamp plus a minimum delay, blocking the next caller
// until the window has elapsed).
type rateLimiter struct {
	mu          sync.Mutex
	lastRequest time.Time
	minDelay    time.Duration
}

func newRateLimiter(minDelay time.Duration) *rateLimiter {
	return &rateLimiter{minDelay: minDelay}
}

func (r *rateLimiter) wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lastRequest.IsZero() {
		r.lastRequest = time.Now()
		return nil
	}

	elapsed := time.Since(r.lastRequest)
	if elapsed < r.minDelay {
		select {
		case <-time.After(r.minDelay - elapsed):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r.lastRequest = time.Now()

	return nil
}

// ArtistEnrichmentProvider fetches artist biography/country metadata
// over HTTP with MusicBrainz-style etiquette: one request per second,
// a descriptive user agent. The concrete search/lookup wire format is
// out of scope (spec §6 names MusicBrainz/LastFm/LRCLIB wire shapes as
// host-supplied); this type is the interface + rate-limit shell a host
// adapter plugs a real client into.
type ArtistEnrichmentProvider struct {
	http      capability.HttpClient
	baseURL   string
	userAgent string
	limiter   *rateLimiter
}

// NewArtistEnrichmentProvider builds a provider rate-limited to one
// request per minDelay against baseURL.
func NewArtistEnrichmentProvider(http capability.HttpClient, baseURL, userAgent string, minDelay time.Duration) *ArtistEnrichmentProvider {
	return &ArtistEnrichmentProvider{http: http, baseURL: baseURL, userAgent: userAgent, limiter: newRateLimiter(minDelay)}
}

// FetchArtistMetadata waits for the rate limiter's window, then issues
// a single GET against baseURL with the configured user agent. The
// caller supplies a RequestBuilder-free query string since the exact
// endpoint shape is host-specific (spec §6).
func (p *ArtistEnrichmentProvider) FetchArtistMetadata(ctx context.Context, query string) (*ArtistMetadata, error) {
	if err := p.limiter.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := p.http.Execute(ctx, capability.HttpRequest{
		Method: "GET",
		URL:    p.baseURL + "?query=" + query,
		Headers: map[string]string{
			"User-Agent": p.userAgent,
			"Accept":     "application/json",
		},
	})
	if err != nil {
		return nil, err
	}

	return parseArtistResponse(resp.Body)
}
