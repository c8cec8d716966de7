package domain

import "time"

// CleanupStats holds statistics about one expiry sweep.
type CleanupStats struct {
	Deleted      int           `json:"deletedCount"`
	MediaRemoved int           `json:"mediaRemoved"`
	StaleUploads int           `json:"staleUploads"`
	Errors       int           `json:"errors"`
	Duration     time.Duration `json:"-"`
}
