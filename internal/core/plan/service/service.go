package planapp

import (
	"context"
	"fmt"
	"time"

	planEntity "travelhub/internal/core/plan"
	planPort "travelhub/internal/ports/plan"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

type PlanService struct {
	PlanRepository planPort.PlanRepository
	Logger         *zap.Logger
}

func NewPlanService(repo planPort.PlanRepository, logger *zap.Logger) *PlanService {
	return &PlanService{
		PlanRepository: repo,
		Logger:         logger,
	}
}

type CreatePlanInput struct {
	UserID      string
	Title       string
	Description *string
	PlanType    string
	AIPrompt    *string
	StartDate   string
	EndDate     string
	IsPublic    bool
}

type AddDetailInput struct {
	PlanID           uint
	PlaceID          *uint
	Date             string
	Description      *string
	OrderIndex       int
	TempPlaceName    *string
	TempPlaceAddress *string
}

func parseDate(field, s string) (datatypes.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	return datatypes.Date(t), nil
}

// CreatePlan ایجاد برنامه سفر جدید
func (s *PlanService) CreatePlan(ctx context.Context, in CreatePlanInput) (*planPort.ItineraryDTO, error) {
	uid, err := uuid.FromString(in.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid userID: %w", err)
	}
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}

	p, err := s.PlanRepository.CreatePlan(ctx, &planEntity.TravelPlan{
		UserID:      uid,
		Title:       in.Title,
		Description: in.Description,
		PlanType:    planEntity.PlanType(in.PlanType),
		AIPrompt:    in.AIPrompt,
		StartDate:   start,
		EndDate:     end,
		IsPublic:    in.IsPublic,
	})
	if err != nil {
		s.Logger.Warn("Failed to create plan", zap.String("userID", in.UserID), zap.Error(err))
		return nil, err
	}

	s.Logger.Info("Plan created", zap.Uint("planID", p.ID), zap.String("userID", in.UserID))
	return toItinerary(p), nil
}

// AddDetail appends one entry to a plan.
func (s *PlanService) AddDetail(ctx context.Context, in AddDetailInput) (*planPort.DetailDTO, error) {
	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}

	d, err := s.PlanRepository.AddDetail(ctx, &planEntity.PlanDetail{
		PlanID:           in.PlanID,
		PlaceID:          in.PlaceID,
		Date:             date,
		Description:      in.Description,
		OrderIndex:       in.OrderIndex,
		TempPlaceName:    in.TempPlaceName,
		TempPlaceAddress: in.TempPlaceAddress,
	})
	if err != nil {
		return nil, err
	}
	return toDetail(d), nil
}

// GetItinerary returns the plan with its entries in day order.
func (s *PlanService) GetItinerary(ctx context.Context, planID uint) (*planPort.ItineraryDTO, error) {
	p, err := s.PlanRepository.FindPlanByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	return toItinerary(p), nil
}

func (s *PlanService) DeletePlan(ctx context.Context, planID uint) error {
	if err := s.PlanRepository.DeletePlan(ctx, planID); err != nil {
		return err
	}
	s.Logger.Info("Plan deleted", zap.Uint("planID", planID))
	return nil
}

func toItinerary(p *planEntity.TravelPlan) *planPort.ItineraryDTO {
	dto := &planPort.ItineraryDTO{
		ID:        p.ID,
		UserID:    p.UserID.String(),
		Title:     p.Title,
		PlanType:  string(p.PlanType),
		StartDate: time.Time(p.StartDate).Format(dateLayout),
		EndDate:   time.Time(p.EndDate).Format(dateLayout),
		IsPublic:  p.IsPublic,
		Details:   make([]*planPort.DetailDTO, 0, len(p.Details)),
	}
	for i := range p.Details {
		dto.Details = append(dto.Details, toDetail(&p.Details[i]))
	}
	return dto
}

func toDetail(d *planEntity.PlanDetail) *planPort.DetailDTO {
	dto := &planPort.DetailDTO{
		ID:          d.ID,
		Date:        time.Time(d.Date).Format(dateLayout),
		OrderIndex:  d.OrderIndex,
		PlaceID:     d.PlaceID,
		PlaceName:   d.DisplayPlace(),
		Description: d.Description,
	}
	if d.Place != nil {
		dto.PlaceAddress = d.Place.Address
	} else {
		dto.PlaceAddress = d.TempPlaceAddress
	}
	return dto
}
