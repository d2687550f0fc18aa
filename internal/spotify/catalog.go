// Package spotify wraps the Spotify Web API behind the small Catalog
// interface the tool dispatcher works against.
package spotify

import "context"

// Track is one search hit.
type Track struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

// Display returns the human-readable form used in review prompts.
func (t Track) Display() string {
	if t.Artist == "" {
		return t.Name
	}
	return t.Name + " by " + t.Artist
}

// Playlist is a created playlist with its shareable URL.
type Playlist struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Catalog is the external music-catalog surface the dispatcher needs.
type Catalog interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]Track, error)
	CreatePlaylist(ctx context.Context, owner, name, description string) (Playlist, error)
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error
}
