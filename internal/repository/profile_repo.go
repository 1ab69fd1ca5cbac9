package repository

import (
	"context"

	"wedding/guesthub/internal/model"
)

type ProfileRepository interface {
	// Upsert writes the identity attributes of a profile. An existing guest
	// back-reference is left untouched.
	Upsert(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
}
