package sync

import "time"

const (
	EventItemUpdate = "library.update"
	EventItemDelete = "library.delete"
)

// ItemEvent notifies open views that a library item changed.
type ItemEvent struct {
	Type   string    `json:"type"`
	ItemID string    `json:"item_id"`
	Title  string    `json:"title,omitempty"`
	At     time.Time `json:"at"`
}
