package domain

import "time"

// SyncSummary is the server's answer to a synchronization probe: how many
// cards and categories the user has and when the server computed it.
type SyncSummary struct {
	CardCount     int       `json:"card_count"`
	CategoryCount int       `json:"category_count"`
	Timestamp     time.Time `json:"timestamp"`
}
