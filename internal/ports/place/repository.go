package place

import (
	"context"

	"travelhub/internal/core/place"
)

type PlaceRepository interface {
	Create(ctx context.Context, p *place.Place) (*place.Place, error)
	FindByID(ctx context.Context, id uint) (*place.Place, error)
	Delete(ctx context.Context, id uint) error
}
