package models

import (
	"time"

	"gorm.io/gorm"
)

type Message struct {
	gorm.Model
	SenderID   uint   `json:"senderID" gorm:"not null;index"`
	ReceiverID uint   `json:"receiverID" gorm:"not null;index"`
	Content    string `json:"content" gorm:"type:text"`
	// Optional listing the conversation is about; survives listing deletion
	ListingID *uint      `json:"listingID" gorm:"index"`
	Read      bool       `json:"read" gorm:"default:false;index"`
	ReadAt    *time.Time `json:"readAt"`
}
