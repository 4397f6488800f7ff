package plan

import (
	"context"

	"travelhub/internal/core/plan"

	"github.com/gofrs/uuid"
)

// PlanRepository persists itineraries and their day entries.
type PlanRepository interface {
	CreatePlan(ctx context.Context, p *plan.TravelPlan) (*plan.TravelPlan, error)
	FindPlanByID(ctx context.Context, id uint) (*plan.TravelPlan, error)
	ListPlansByUser(ctx context.Context, userID uuid.UUID, publicOnly bool) ([]*plan.TravelPlan, error)
	UpdatePlan(ctx context.Context, p *plan.TravelPlan) error
	DeletePlan(ctx context.Context, id uint) error
	AddDetail(ctx context.Context, d *plan.PlanDetail) (*plan.PlanDetail, error)
	ListDetails(ctx context.Context, planID uint) ([]*plan.PlanDetail, error)
	DeleteDetail(ctx context.Context, id uint) error
}

type DetailDTO struct {
	ID           uint    `json:"id"`
	Date         string  `json:"date"`
	OrderIndex   int     `json:"order_index"`
	PlaceID      *uint   `json:"place_id,omitempty"`
	PlaceName    string  `json:"place_name"`
	PlaceAddress *string `json:"place_address,omitempty"`
	Description  *string `json:"description,omitempty"`
}

type ItineraryDTO struct {
	ID        uint         `json:"id"`
	UserID    string       `json:"user_id"`
	Title     string       `json:"title"`
	PlanType  string       `json:"plan_type"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	IsPublic  bool         `json:"is_public"`
	Details   []*DetailDTO `json:"details"`
}
