// Package links manages the ordered link collections shown on public
// profiles. Every link belongs to one user; positions are dense ordinals
// starting at 1 and drive the display order.
package links

import "time"

// Link is the persisted link record.
type Link struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRequest holds the payload for creating a link.
type CreateRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// UpdateRequest holds the payload for editing a link's title or URL.
// Position changes go through reorder, not here.
type UpdateRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ReorderItem assigns a link its new position. A reorder request is a JSON
// array of these, one per link in the collection.
type ReorderItem struct {
	ID       int64 `json:"id"`
	Position int   `json:"position"`
}
