package entities

import "time"

// ReviewStatus mirrors ModerationStatus for reviews. Reviews are created
// approved in this core; the field exists so a stricter moderation pass can
// be added without a schema change.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Review is a user's rating and optional comment on a hotspot.
type Review struct {
	ID        int          `json:"id" db:"id"`
	UserID    int          `json:"userId" db:"user_id"`
	HotspotID int          `json:"hotspotId" db:"hotspot_id"`
	Rating    int          `json:"rating" db:"rating"`
	Comment   *string      `json:"comment,omitempty" db:"comment"`
	PhotoURL  *string      `json:"photoUrl,omitempty" db:"photo_url"`
	Status    ReviewStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
}
