package models

import "time"

// Interaction is an append-only view/like event. Repeated rows for the same
// (user, listing) pair are expected; the listing's own view counter is
// maintained separately.
type Interaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userID" gorm:"not null;index"`
	ListingID uint      `json:"listingID" gorm:"not null;index"`
	Action    string    `json:"action" gorm:"type:varchar(10);index"` // view, like
	CreatedAt time.Time `json:"createdAt" gorm:"index"`

	Listing Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID;references:ID"`
}
