package database

import (
	"context"

	"travelhub/internal/core/plan"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// PlanRepositoryDatabase implements PlanRepository on gorm.
type PlanRepositoryDatabase struct {
	db *gorm.DB
}

func NewPlanRepositoryDatabase(db *gorm.DB) *PlanRepositoryDatabase {
	return &PlanRepositoryDatabase{db: db}
}

func orderedDetails(db *gorm.DB) *gorm.DB {
	return db.Order(plan.PlanDetail{}.DefaultOrder())
}

// CreatePlan inserts the plan and any details attached to it.
func (repo *PlanRepositoryDatabase) CreatePlan(ctx context.Context, p *plan.TravelPlan) (*plan.TravelPlan, error) {
	if err := repo.db.WithContext(ctx).Omit("User").Create(p).Error; err != nil {
		return nil, Translate(err, "create plan")
	}
	return p, nil
}

func (repo *PlanRepositoryDatabase) FindPlanByID(ctx context.Context, id uint) (*plan.TravelPlan, error) {
	var p plan.TravelPlan
	err := repo.db.WithContext(ctx).
		Preload("Details", orderedDetails).
		Preload("Details.Place").
		First(&p, id).Error
	if err != nil {
		return nil, Translate(err, "find plan")
	}
	return &p, nil
}

func (repo *PlanRepositoryDatabase) ListPlansByUser(ctx context.Context, userID uuid.UUID, publicOnly bool) ([]*plan.TravelPlan, error) {
	var plans []*plan.TravelPlan
	q := repo.db.WithContext(ctx).Where("user_id = ?", userID)
	if publicOnly {
		q = q.Where("is_public = ?", true)
	}
	if err := q.Order(plan.TravelPlan{}.DefaultOrder()).Find(&plans).Error; err != nil {
		return nil, Translate(err, "list plans")
	}
	return plans, nil
}

// UpdatePlan rewrites the editable columns; owner and details are untouched.
func (repo *PlanRepositoryDatabase) UpdatePlan(ctx context.Context, p *plan.TravelPlan) error {
	if err := p.Validate(); err != nil {
		return err
	}
	res := repo.db.WithContext(ctx).Model(p).
		Select("*").
		Omit("ID", "UserID", "CreatedAt", "User", "Details").
		Updates(p)
	return mustAffect(res, "update plan")
}

// DeletePlan removes the plan with its details and unlinks posts built on it.
func (repo *PlanRepositoryDatabase) DeletePlan(ctx context.Context, id uint) error {
	return mustAffect(repo.db.WithContext(ctx).Delete(&plan.TravelPlan{}, id), "delete plan")
}

func (repo *PlanRepositoryDatabase) AddDetail(ctx context.Context, d *plan.PlanDetail) (*plan.PlanDetail, error) {
	if err := repo.db.WithContext(ctx).Omit("Place").Create(d).Error; err != nil {
		return nil, Translate(err, "add plan detail")
	}
	return d, nil
}

func (repo *PlanRepositoryDatabase) ListDetails(ctx context.Context, planID uint) ([]*plan.PlanDetail, error) {
	var details []*plan.PlanDetail
	err := orderedDetails(repo.db.WithContext(ctx)).
		Preload("Place").
		Where("plan_id = ?", planID).
		Find(&details).Error
	if err != nil {
		return nil, Translate(err, "list plan details")
	}
	return details, nil
}

func (repo *PlanRepositoryDatabase) DeleteDetail(ctx context.Context, id uint) error {
	return mustAffect(repo.db.WithContext(ctx).Delete(&plan.PlanDetail{}, id), "delete plan detail")
}
