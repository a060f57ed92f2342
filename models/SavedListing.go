package models

import "time"

// SavedListing is a bookmark, unique per (user, listing) pair.
type SavedListing struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userID" gorm:"not null;uniqueIndex:idx_saved_user_listing"`
	ListingID uint      `json:"listingID" gorm:"not null;uniqueIndex:idx_saved_user_listing"`
	SavedAt   time.Time `json:"savedAt" gorm:"autoCreateTime"`

	Listing Listing `json:"listing" gorm:"foreignKey:ListingID;references:ID"`
}
