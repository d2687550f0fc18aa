package spotify

import (
	"context"
	"fmt"
	"log"

	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// searchLimitCap is the Spotify API page maximum for a track search.
const searchLimitCap = 50

// Client implements Catalog over the Spotify Web API.
type Client struct {
	api *spotifyapi.Client
}

// NewClient wraps an already-authenticated API client.
func NewClient(api *spotifyapi.Client) *Client {
	return &Client{api: api}
}

// NewClientCredentials builds a Catalog client from an app id/secret pair
// using the client-credentials flow.
func NewClientCredentials(ctx context.Context, clientID, clientSecret string) (*Client, error) {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := conf.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify token exchange failed: %w", err)
	}
	httpClient := spotifyauth.New().Client(ctx, token)
	return NewClient(spotifyapi.New(httpClient)), nil
}

func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > searchLimitCap {
		limit = searchLimitCap
	}
	// Suffixing " music" biases mood queries toward actual songs.
	result, err := c.api.Search(ctx, query+" music", spotifyapi.SearchTypeTrack, spotifyapi.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("track search failed: %w", err)
	}
	var tracks []Track
	if result.Tracks != nil {
		for _, t := range result.Tracks.Tracks {
			artist := ""
			if len(t.Artists) > 0 {
				artist = t.Artists[0].Name
			}
			tracks = append(tracks, Track{
				ID:     string(t.ID),
				Name:   t.Name,
				Artist: artist,
			})
		}
	}
	log.Printf("[Spotify] Search %q returned %d tracks", query, len(tracks))
	return tracks, nil
}

func (c *Client) CreatePlaylist(ctx context.Context, owner, name, description string) (Playlist, error) {
	pl, err := c.api.CreatePlaylistForUser(ctx, owner, name, description, true, false)
	if err != nil {
		return Playlist{}, fmt.Errorf("playlist create failed: %w", err)
	}
	return Playlist{
		ID:  string(pl.ID),
		URL: pl.ExternalURLs["spotify"],
	}, nil
}

func (c *Client) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	ids := make([]spotifyapi.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotifyapi.ID(id)
	}
	if _, err := c.api.AddTracksToPlaylist(ctx, spotifyapi.ID(playlistID), ids...); err != nil {
		return fmt.Errorf("adding tracks failed: %w", err)
	}
	return nil
}
