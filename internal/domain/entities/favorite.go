package entities

import "time"

// Favorite is a user's bookmark of a hotspot. The (UserID, HotspotID) pair
// is unique; re-adding an existing favorite is a no-op.
type Favorite struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"userId" db:"user_id"`
	HotspotID int       `json:"hotspotId" db:"hotspot_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
