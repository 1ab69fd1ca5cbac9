package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wedding/guesthub/internal/model"
)

type pgLinkRepository struct {
	db *gorm.DB
}

func NewPGLinkRepository(db *gorm.DB) LinkRepository {
	return &pgLinkRepository{db: db}
}

func (r *pgLinkRepository) Link(ctx context.Context, guestID uuid.UUID, accountID string, audit *model.GuestLink) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. One guest per account
		var linked int64
		if err := tx.Model(&model.Guest{}).
			Where("linked_account_id = ?", accountID).
			Count(&linked).Error; err != nil {
			return err
		}
		if linked > 0 {
			return ErrAccountAlreadyLinked
		}

		// 2. Conditional claim: only an unclaimed guest can be taken
		res := tx.Model(&model.Guest{}).
			Where("id = ? AND linked_account_id IS NULL", guestID).
			Updates(map[string]interface{}{
				"linked_account_id": accountID,
				"rsvp_status":       model.RSVPStatusPending,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&model.Guest{}).Where("id = ?", guestID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrGuestClaimed
		}

		// 3. Profile back-reference
		profile := &model.Profile{ID: accountID, GuestID: &guestID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"guest_id", "updated_at"}),
		}).Create(profile).Error; err != nil {
			return err
		}

		// 4. Audit trail
		if audit != nil {
			audit.GuestID = guestID
			audit.AccountID = accountID
			if err := tx.Create(audit).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *pgLinkRepository) ListHistory(ctx context.Context, guestID uuid.UUID) ([]model.GuestLink, error) {
	var links []model.GuestLink
	err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Find(&links).Error
	return links, err
}
