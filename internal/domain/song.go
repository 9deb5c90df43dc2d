// Package domain contains entity without logic, just meta-data
package domain

import "errors"

var ErrSongNotFound = errors.New("song not found")

// Song is a normalized metadata record returned by a resolver.
type Song struct {
	URL    string
	Title  string
	Artist string
	Length int // seconds
	Art    string
}

// QueueItem is a song fixed in a guild queue. Immutable once enqueued.
// JSON keys match the client protocol: length is whole seconds, art is
// the thumbnail URL.
type QueueItem struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Length int    `json:"length"`
	Art    string `json:"art"`
}

// NewQueueItem avoids raw literals in adapters and keeps construction obvious.
func NewQueueItem(s Song) QueueItem {
	return QueueItem{
		URL:    s.URL,
		Title:  s.Title,
		Artist: s.Artist,
		Length: s.Length,
		Art:    s.Art,
	}
}
