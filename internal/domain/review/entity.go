package review

import "time"

// Review is one wall-of-fame entry. The stored list keeps the newest
// MaxStored entries, newest first.
type Review struct {
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	MaxStored   = 50
	MinTextLen  = 5
	MaxTextLen  = 200
	MaxNameLen  = 20
	DefaultName = "Anonymous"
)
