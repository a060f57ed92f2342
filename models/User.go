package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	Password       string    `json:"-"` // empty for federated accounts
	SocialLogin    bool      `json:"socialLogin"`
	SocialProvider string    `json:"socialProvider"`
	AvatarURL      string    `json:"avatarURL"`
	Role           string    `json:"role" gorm:"type:varchar(20);default:user;index"` // user, admin
	Listings       []Listing `json:"listings,omitempty" gorm:"foreignKey:UserID;references:ID"`
}
