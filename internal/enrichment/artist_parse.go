package enrichment

import (
	"encoding/json"
	"fmt"
)

// artistResponseBody is the minimal JSON shape FetchArtistMetadata
// expects back: {"bio": "...", "country": "...", "mbid": "..."}. The
// actual provider wire format (MusicBrainz search+lookup, two round
// trips) is host-specific per spec §6; this is the narrow contract a
// host adapter's response must satisfy after it does its own provider
// call and reshapes the result.
type artistResponseBody struct {
	Bio     string `json:"bio"`
	Country string `json:"country"`
	MBID    string `json:"mbid"`
}

func parseArtistResponse(body []byte) (*ArtistMetadata, error) {
	var parsed artistResponseBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("enrichment: parse artist metadata response: %w", err)
	}

	return &ArtistMetadata{Bio: parsed.Bio, Country: parsed.Country, MBID: parsed.MBID}, nil
}
