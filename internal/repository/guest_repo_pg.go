package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wedding/guesthub/internal/model"
)

const fetchOrder = "created_at ASC, id ASC"

type pgGuestRepository struct {
	db *gorm.DB
}

func NewPGGuestRepository(db *gorm.DB) GuestRepository {
	return &pgGuestRepository{db: db}
}

func (r *pgGuestRepository) CreateBatch(ctx context.Context, guests []model.Guest) error {
	if len(guests) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(guests, 100).Error
}

func (r *pgGuestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Guest, error) {
	var guest model.Guest
	if err := r.db.WithContext(ctx).First(&guest, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *pgGuestRepository) GetByLinkedAccount(ctx context.Context, accountID string) (*model.Guest, error) {
	var guest model.Guest
	if err := r.db.WithContext(ctx).Where("linked_account_id = ?", accountID).First(&guest).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *pgGuestRepository) ListUnclaimed(ctx context.Context) ([]model.Guest, error) {
	var guests []model.Guest
	err := r.db.WithContext(ctx).
		Where("linked_account_id IS NULL").
		Order(fetchOrder).
		Find(&guests).Error
	return guests, err
}

func (r *pgGuestRepository) ListUnclaimedByEmail(ctx context.Context, email string) ([]model.Guest, error) {
	var guests []model.Guest
	err := r.db.WithContext(ctx).
		Where("email = ? AND linked_account_id IS NULL", email).
		Order(fetchOrder).
		Find(&guests).Error
	return guests, err
}

func (r *pgGuestRepository) ListLinkedAccountIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Guest{}).
		Where("linked_account_id IS NOT NULL").
		Pluck("linked_account_id", &ids).Error
	return ids, err
}

func (r *pgGuestRepository) UpdateRSVP(ctx context.Context, id uuid.UUID, status model.RSVPStatus, respondedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Guest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rsvp_status":       status,
			"rsvp_responded_at": respondedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
