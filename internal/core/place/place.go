package place

import (
	"time"

	"travelhub/internal/core/integrity"

	"gorm.io/gorm"
)

// Place is owned by the places service; itinerary rows only keep its id.
type Place struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Address   *string   `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Place) TableName() string { return "places" }

func (p *Place) Validate() error { return integrity.Check(p) }

func (p *Place) BeforeCreate(tx *gorm.DB) error { return p.Validate() }
