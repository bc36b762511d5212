package entities

import "time"

// ModerationStatus is the workflow state gating a hotspot's visibility.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// Hotspot represents a WiFi-offering location in the directory
type Hotspot struct {
	ID               int              `json:"id" db:"id"`
	Name             string           `json:"name" db:"name"`
	Address          string           `json:"address" db:"address"`
	Category         string           `json:"category" db:"category"`
	Latitude         float64          `json:"latitude" db:"latitude"`
	Longitude        float64          `json:"longitude" db:"longitude"`
	IsFree           bool             `json:"isFree" db:"is_free"`
	WifiPassword     *string          `json:"wifiPassword,omitempty" db:"wifi_password"`
	Description      *string          `json:"description,omitempty" db:"description"`
	IsVerified       bool             `json:"isVerified" db:"is_verified"`
	ModerationStatus ModerationStatus `json:"moderationStatus" db:"moderation_status"`
	SubmittedBy      *string          `json:"submittedBy,omitempty" db:"submitted_by"`
	AverageRating    float64          `json:"averageRating" db:"average_rating"`
	ReviewCount      int              `json:"reviewCount" db:"review_count"`
	IsSponsored      bool             `json:"isSponsored" db:"is_sponsored"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
}
