package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LinkType records how a link was made: the automatic strategy that matched,
// or an administrator override.
type LinkType string

const (
	LinkTypeExactEmail  LinkType = "exact_email"
	LinkTypeExactPhone  LinkType = "exact_phone"
	LinkTypeFuzzyName   LinkType = "fuzzy_name"
	LinkTypeManualAdmin LinkType = "manual_admin"
)

// CreatedBySystem marks links made by signup matching.
const CreatedBySystem = "system"

// GuestLink is an append-only audit row for guest/account links.
type GuestLink struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GuestID    uuid.UUID `gorm:"type:uuid;not null;index" json:"guest_id"`
	AccountID  string    `gorm:"type:varchar(128);not null;index" json:"account_id"`
	LinkType   LinkType  `gorm:"type:varchar(32);not null" json:"link_type"`
	Confidence string    `gorm:"type:varchar(16)" json:"confidence,omitempty"`
	CreatedBy  string    `gorm:"type:varchar(128);not null" json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

func (GuestLink) TableName() string { return "guest_link_history" }

func (l *GuestLink) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
