// Package models defines the gallery domain types shared by the API client,
// the session manager, and the data cache.
package models

import "time"

// User is the locally cached identity of the authenticated account.
// It may be stale relative to the server's record until the next resync.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
