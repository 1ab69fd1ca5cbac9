package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RSVPStatus string

const (
	RSVPStatusPending   RSVPStatus = "pending"
	RSVPStatusAttending RSVPStatus = "attending"
	RSVPStatusDeclined  RSVPStatus = "declined"
	RSVPStatusMaybe     RSVPStatus = "maybe"
)

// Guest is a pre-loaded guest-list entry. A nil LinkedAccountID means the
// entry is unclaimed; once set it is never cleared.
type Guest struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string     `gorm:"type:varchar(256);not null" json:"name"`
	Email           string     `gorm:"type:varchar(320);index" json:"email"`
	Mobile          string     `gorm:"type:varchar(64)" json:"mobile"`
	RSVPStatus      RSVPStatus `gorm:"type:varchar(32);not null;default:'pending'" json:"rsvp_status"`
	RSVPRespondedAt *time.Time `json:"rsvp_responded_at,omitempty"`
	LinkedAccountID *string    `gorm:"type:varchar(128);uniqueIndex" json:"linked_account_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Guest) TableName() string { return "guest_list" }

func (g *Guest) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.RSVPStatus == "" {
		g.RSVPStatus = RSVPStatusPending
	}
	return nil
}

// Claimed reports whether an account has been linked to the guest.
func (g *Guest) Claimed() bool {
	return g.LinkedAccountID != nil && *g.LinkedAccountID != ""
}
