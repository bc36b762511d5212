package entities

import "time"

// Photo is a user-submitted image evidencing a hotspot. Photos start
// unapproved and only show up in listings once moderated.
type Photo struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"userId" db:"user_id"`
	HotspotID int       `json:"hotspotId" db:"hotspot_id"`
	PhotoURL  string    `json:"photoUrl" db:"photo_url"`
	Approved  bool      `json:"approved" db:"approved"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
