// Package ytmusic resolves song metadata against a ytmusicapi-style
// HTTP service and normalizes it into domain.Song records.
package ytmusic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/SyncTube/internal/domain"
)

type Client struct {
	base string
	http *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

type thumbnail struct {
	URL string `json:"url"`
}

type artist struct {
	Name string `json:"name"`
}

// songDetails mirrors the get_song videoDetails payload. The upstream
// API reports lengthSeconds as a string.
type songDetails struct {
	VideoID       string      `json:"videoId"`
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	LengthSeconds string      `json:"lengthSeconds"`
	Thumbnails    []thumbnail `json:"thumbnails"`
}

type searchHit struct {
	VideoID    string      `json:"videoId"`
	Title      string      `json:"title"`
	Artists    []artist    `json:"artists"`
	Duration   string      `json:"duration"`
	Thumbnails []thumbnail `json:"thumbnails"`
}

// ResolveByID fetches full video details for a known video id.
func (c *Client) ResolveByID(ctx context.Context, videoID string) (domain.Song, error) {
	var details songDetails
	if err := c.getJSON(ctx, c.base+"/songs/"+url.PathEscape(videoID), &details); err != nil {
		return domain.Song{}, err
	}
	if details.VideoID == "" {
		return domain.Song{}, domain.ErrSongNotFound
	}
	length, err := strconv.Atoi(details.LengthSeconds)
	if err != nil {
		return domain.Song{}, fmt.Errorf("bad lengthSeconds %q: %w", details.LengthSeconds, err)
	}
	return domain.Song{
		URL:    embedURL(details.VideoID),
		Title:  details.Title,
		Artist: details.Author,
		Length: length,
		Art:    firstThumbnail(details.Thumbnails),
	}, nil
}

// ResolveByQuery searches songs and takes the first hit.
func (c *Client) ResolveByQuery(ctx context.Context, query string) (domain.Song, error) {
	var hits []searchHit
	u := c.base + "/search?filter=songs&q=" + url.QueryEscape(query)
	if err := c.getJSON(ctx, u, &hits); err != nil {
		return domain.Song{}, err
	}
	if len(hits) == 0 {
		return domain.Song{}, domain.ErrSongNotFound
	}
	hit := hits[0]
	length, err := parseDuration(hit.Duration)
	if err != nil {
		return domain.Song{}, fmt.Errorf("bad duration %q: %w", hit.Duration, err)
	}
	names := make([]string, 0, len(hit.Artists))
	for _, a := range hit.Artists {
		names = append(names, a.Name)
	}
	return domain.Song{
		URL:    embedURL(hit.VideoID),
		Title:  hit.Title,
		Artist: strings.Join(names, ", "),
		Length: length,
		Art:    firstThumbnail(hit.Thumbnails),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrSongNotFound
	}
	if resp.StatusCode != http.StatusOK {
		log.Warn().Str("module", "adapters.ytmusic").Int("status", resp.StatusCode).Str("url", url).Msg("resolver error status")
		return fmt.Errorf("resolver returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func embedURL(videoID string) string {
	return "https://youtube.com/embed/" + videoID
}

func firstThumbnail(ts []thumbnail) string {
	if len(ts) == 0 {
		return ""
	}
	return ts[0].URL
}

// parseDuration converts "M:SS" or "H:MM:SS" to seconds.
func parseDuration(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("unexpected duration format")
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, err
		}
		total = total*60 + n
	}
	return total, nil
}
