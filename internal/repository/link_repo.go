package repository

import (
	"context"

	"github.com/google/uuid"

	"wedding/guesthub/internal/model"
)

// LinkRepository performs the guest/account claim.
type LinkRepository interface {
	// Link claims guestID for accountID, resets the guest's RSVP to pending,
	// points the account's profile at the guest and appends audit when it is
	// non-nil. Everything happens in one transaction. A guest that is already
	// claimed yields ErrGuestClaimed; an unknown guest yields
	// gorm.ErrRecordNotFound.
	Link(ctx context.Context, guestID uuid.UUID, accountID string, audit *model.GuestLink) error
	ListHistory(ctx context.Context, guestID uuid.UUID) ([]model.GuestLink, error)
}
