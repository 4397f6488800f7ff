package database

import (
	"context"

	"travelhub/internal/core/place"

	"gorm.io/gorm"
)

type PlaceRepositoryDatabase struct {
	db *gorm.DB
}

func NewPlaceRepositoryDatabase(db *gorm.DB) *PlaceRepositoryDatabase {
	return &PlaceRepositoryDatabase{db: db}
}

func (repo *PlaceRepositoryDatabase) Create(ctx context.Context, p *place.Place) (*place.Place, error) {
	if err := repo.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, Translate(err, "create place")
	}
	return p, nil
}

func (repo *PlaceRepositoryDatabase) FindByID(ctx context.Context, id uint) (*place.Place, error) {
	var p place.Place
	if err := repo.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, Translate(err, "find place")
	}
	return &p, nil
}

// Delete removes the place; plan details keep their temp name/address.
func (repo *PlaceRepositoryDatabase) Delete(ctx context.Context, id uint) error {
	return mustAffect(repo.db.WithContext(ctx).Delete(&place.Place{}, id), "delete place")
}
