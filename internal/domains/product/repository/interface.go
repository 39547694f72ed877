package repository

import (
	"context"

	"github.com/google/uuid"

	"productstore-backend/internal/domains/product/model"
)

// Repository is the remote entity store contract. Every read and write is
// scoped by owner; rows never cross owners.
type Repository interface {
	// Insert stores a new product and returns the row with the
	// store-assigned id and created_at.
	Insert(ctx context.Context, p *model.Product) (*model.Product, error)
	// SelectByOwner returns the owner's products newest first.
	SelectByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error)
	// Update merges the patch into the row matching id AND owner.
	// A nil patch.BannerImage leaves the stored banner untouched.
	Update(ctx context.Context, id, ownerID uuid.UUID, patch model.Patch) (*model.Product, error)
	// DeleteByID removes the row matching id AND owner.
	DeleteByID(ctx context.Context, id, ownerID uuid.UUID) error
}
