package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the application's record of an identity-provider account.
// ID is the provider-assigned account id.
type Profile struct {
	ID        string     `gorm:"type:varchar(128);primaryKey" json:"id"`
	Email     string     `gorm:"type:varchar(320)" json:"email"`
	FirstName string     `gorm:"type:varchar(128)" json:"first_name"`
	LastName  string     `gorm:"type:varchar(128)" json:"last_name"`
	Mobile    string     `gorm:"type:varchar(64)" json:"mobile,omitempty"`
	GuestID   *uuid.UUID `gorm:"type:uuid;index" json:"guest_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// AccountIdentity carries the attributes supplied at signup. It is input to
// matching and is not persisted as-is.
type AccountIdentity struct {
	AccountID string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Mobile    string `json:"mobile,omitempty"`
}

// Identity projects a profile back onto the signup attribute shape.
func (p *Profile) Identity() AccountIdentity {
	return AccountIdentity{
		AccountID: p.ID,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Mobile:    p.Mobile,
	}
}
