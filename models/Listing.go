package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Listing moderation states.
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusRejected = "rejected"
)

type Listing struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID       uint    `json:"userID" gorm:"not null;index"`
	VehicleType  string  `json:"vehicleType" gorm:"type:varchar(20);index"` // car, van, jeep, double-cab
	Model        string  `json:"model" gorm:"size:256"`
	Condition    string  `json:"condition" gorm:"type:varchar(20)"` // brand-new, used, unregister
	Year         int     `json:"year"`
	Price        float64 `json:"price"`
	Mileage      *int    `json:"mileage"`
	FuelType     string  `json:"fuelType" gorm:"size:32"`
	Transmission string  `json:"transmission" gorm:"size:32"`
	Region       string  `json:"region" gorm:"size:128"`
	City         string  `json:"city" gorm:"size:128"`
	Lat          float32 `json:"lat"`
	Lng          float32 `json:"lng"`
	Description  string  `json:"description" gorm:"type:text"`
	Images       string  `json:"images"` // JSON array of URLs
	ContactPhone string  `json:"contactPhone" gorm:"size:32"`
	ContactEmail string  `json:"contactEmail" gorm:"size:256"`

	Status    string         `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Views     int64          `json:"views" gorm:"default:0"`
	ViewerIDs datatypes.JSON `json:"-" gorm:"type:jsonb;default:'[]'"`

	User User `json:"user" gorm:"foreignKey:UserID;references:ID"`
}

// Custom JSON marshaling: Images is stored as a JSON string column, clients
// get a real array; the raw viewer set stays private and is exposed as a count.
func (l *Listing) MarshalJSON() ([]byte, error) {
	type Alias Listing
	aux := &struct {
		Images        []string `json:"images"`
		UniqueViewers int      `json:"uniqueViewers"`
		User          *User    `json:"user,omitempty"`
		*Alias
	}{
		Images: []string{},
		Alias:  (*Alias)(l),
	}

	if l.Images != "" {
		var images []string
		if err := json.Unmarshal([]byte(l.Images), &images); err == nil {
			aux.Images = images
		}
	}

	if l.ViewerIDs != nil {
		var viewers []uint
		if err := json.Unmarshal(l.ViewerIDs, &viewers); err == nil {
			aux.UniqueViewers = len(viewers)
		}
	}

	// Only include the seller when it was preloaded, without its listings to
	// avoid a circular reference
	if l.User.ID > 0 {
		userCopy := l.User
		userCopy.Listings = nil
		aux.User = &userCopy
	}

	return json.Marshal(aux)
}
