package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wedding/guesthub/internal/model"
)

// GuestRepository reads and mutates guest-list entries. List methods return
// rows in fetch order: created_at, then id.
type GuestRepository interface {
	CreateBatch(ctx context.Context, guests []model.Guest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Guest, error)
	GetByLinkedAccount(ctx context.Context, accountID string) (*model.Guest, error)
	ListUnclaimed(ctx context.Context) ([]model.Guest, error)
	ListUnclaimedByEmail(ctx context.Context, email string) ([]model.Guest, error)
	ListLinkedAccountIDs(ctx context.Context) ([]string, error)
	UpdateRSVP(ctx context.Context, id uuid.UUID, status model.RSVPStatus, respondedAt time.Time) error
}
