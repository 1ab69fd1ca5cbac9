package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wedding/guesthub/internal/model"
)

type pgProfileRepository struct {
	db *gorm.DB
}

func NewPGProfileRepository(db *gorm.DB) ProfileRepository {
	return &pgProfileRepository{db: db}
}

func (r *pgProfileRepository) Upsert(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "mobile", "updated_at"}),
		}).
		Omit("guest_id").
		Create(profile).Error
}

func (r *pgProfileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *pgProfileRepository) List(ctx context.Context) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&profiles).Error
	return profiles, err
}
