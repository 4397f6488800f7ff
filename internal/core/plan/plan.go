package plan

import (
	"time"

	"travelhub/internal/core/integrity"
	"travelhub/internal/core/place"
	"travelhub/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlanType string

const (
	PlanTypePersonal      PlanType = "personal"
	PlanTypeAIRecommended PlanType = "ai_recommended"
)

func (t PlanType) IsValid() bool {
	switch t {
	case PlanTypePersonal, PlanTypeAIRecommended:
		return true
	}
	return false
}

// TravelPlan is a user's itinerary. Its details go with it; posts that
// reference it are only unlinked.
type TravelPlan struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:char(36);not null;index;index:idx_travel_plans_user_public,priority:1" json:"user_id"`
	User        user.User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title" validate:"required,max=255"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	PlanType    PlanType       `gorm:"type:varchar(20);not null;default:'personal'" json:"plan_type" validate:"required,enum"`
	AIPrompt    *string        `gorm:"type:text" json:"ai_prompt,omitempty"`
	StartDate   datatypes.Date `gorm:"not null" json:"start_date" validate:"required"`
	EndDate     datatypes.Date `gorm:"not null" json:"end_date" validate:"required"`
	IsPublic    bool           `gorm:"not null;default:false;index;index:idx_travel_plans_user_public,priority:2" json:"is_public"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Details []PlanDetail `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"details,omitempty" validate:"-"`
}

func (TravelPlan) TableName() string { return "travel_plans" }

func (TravelPlan) DefaultOrder() string { return "created_at DESC" }

func (p *TravelPlan) Validate() error {
	if err := integrity.Check(p); err != nil {
		return err
	}
	if time.Time(p.EndDate).Before(time.Time(p.StartDate)) {
		return integrity.Invalid("TravelPlan", "end_date", "gtefield=start_date")
	}
	return nil
}

func (p *TravelPlan) BeforeCreate(tx *gorm.DB) error {
	if p.PlanType == "" {
		p.PlanType = PlanTypePersonal
	}
	return p.Validate()
}

// PlanDetail is one itinerary entry. When the linked place disappears the
// temp name/address stay as the human-readable fallback.
type PlanDetail struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	PlanID           uint           `gorm:"not null;index" json:"plan_id" validate:"required"`
	PlaceID          *uint          `gorm:"index" json:"place_id,omitempty"`
	Place            *place.Place   `gorm:"foreignKey:PlaceID;constraint:OnDelete:SET NULL" json:"place,omitempty" validate:"-"`
	Date             datatypes.Date `gorm:"not null;index" json:"date" validate:"required"`
	Description      *string        `gorm:"type:text" json:"description,omitempty"`
	OrderIndex       int            `gorm:"not null;default:0" json:"order_index"`
	TempPlaceName    *string        `gorm:"type:varchar(255)" json:"temp_place_name,omitempty" validate:"omitempty,max=255"`
	TempPlaceAddress *string        `gorm:"type:text" json:"temp_place_address,omitempty"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (PlanDetail) TableName() string { return "plan_details" }

func (PlanDetail) DefaultOrder() string { return "date ASC, order_index ASC" }

func (d *PlanDetail) Validate() error { return integrity.Check(d) }

func (d *PlanDetail) BeforeCreate(tx *gorm.DB) error { return d.Validate() }

// DisplayPlace returns the linked place name, falling back to the temp name.
func (d *PlanDetail) DisplayPlace() string {
	if d.Place != nil && d.Place.Name != "" {
		return d.Place.Name
	}
	if d.TempPlaceName != nil {
		return *d.TempPlaceName
	}
	return ""
}
