package database

import (
	"context"
	"testing"
	"time"

	"travelhub/internal/core/integrity"
	"travelhub/internal/core/place"
	"travelhub/internal/core/plan"
	"travelhub/internal/core/post"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanRepository_CreateAppliesDefaults(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "traveller")
	repo := NewPlanRepositoryDatabase(db)

	p, err := repo.CreatePlan(context.Background(), &plan.TravelPlan{
		UserID:    u.ID,
		Title:     "Jeju",
		StartDate: date("2025-05-01"),
		EndDate:   date("2025-05-03"),
	})
	require.NoError(t, err)

	got, err := repo.FindPlanByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.PlanTypePersonal, got.PlanType)
	assert.False(t, got.IsPublic)
	assert.Equal(t, "2025-05-01", time.Time(got.StartDate).Format("2006-01-02"))
}

func TestPlanRepository_RejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "traveller")
	repo := NewPlanRepositoryDatabase(db)
	ctx := context.Background()

	_, err := repo.CreatePlan(ctx, &plan.TravelPlan{
		UserID: u.ID, Title: "x", PlanType: "group",
		StartDate: date("2025-05-01"), EndDate: date("2025-05-03"),
	})
	assert.ErrorIs(t, err, integrity.ErrValidation)

	_, err = repo.CreatePlan(ctx, &plan.TravelPlan{
		UserID: u.ID, Title: "x",
		StartDate: date("2025-05-03"), EndDate: date("2025-05-01"),
	})
	var verr *integrity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "end_date", verr.Field)
}

func TestPlanRepository_UpdateRejectsEmptyPlanType(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "traveller")
	repo := NewPlanRepositoryDatabase(db)
	ctx := context.Background()

	p, err := repo.CreatePlan(ctx, &plan.TravelPlan{
		UserID: u.ID, Title: "Jeju",
		StartDate: date("2025-05-01"), EndDate: date("2025-05-03"),
	})
	require.NoError(t, err)

	err = repo.UpdatePlan(ctx, &plan.TravelPlan{
		ID: p.ID, UserID: u.ID, Title: "Jeju, longer",
		StartDate: date("2025-05-01"), EndDate: date("2025-05-04"),
	})
	var verr *integrity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "plan_type", verr.Field)

	got, err := repo.FindPlanByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.PlanTypePersonal, got.PlanType)
	assert.Equal(t, "Jeju", got.Title)

	got.Title = "Jeju, longer"
	require.NoError(t, repo.UpdatePlan(ctx, got))
}

func TestPlanRepository_DetailsOrderedByDateThenIndex(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "traveller")
	repo := NewPlanRepositoryDatabase(db)
	ctx := context.Background()

	p, err := repo.CreatePlan(ctx, &plan.TravelPlan{
		UserID: u.ID, Title: "Busan",
		StartDate: date("2025-06-01"), EndDate: date("2025-06-02"),
	})
	require.NoError(t, err)

	for _, d := range []struct {
		day   string
		index int
		name  string
	}{
		{"2025-06-02", 0, "c"},
		{"2025-06-01", 1, "b"},
		{"2025-06-01", 0, "a"},
	} {
		_, err := repo.AddDetail(ctx, &plan.PlanDetail{
			PlanID: p.ID, Date: date(d.day), OrderIndex: d.index, TempPlaceName: strPtr(d.name),
		})
		require.NoError(t, err)
	}

	details, err := repo.ListDetails(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, details, 3)
	assert.Equal(t, "a", details[0].DisplayPlace())
	assert.Equal(t, "b", details[1].DisplayPlace())
	assert.Equal(t, "c", details[2].DisplayPlace())
}

func TestPlanRepository_DeleteCascadesDetailsAndUnlinksPosts(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "traveller")
	plans := NewPlanRepositoryDatabase(db)
	posts := NewPostRepositoryDatabase(db)
	ctx := context.Background()

	p, err := plans.CreatePlan(ctx, &plan.TravelPlan{
		UserID: u.ID, Title: "Seoul",
		StartDate: date("2025-07-01"), EndDate: date("2025-07-01"),
		Details: []plan.PlanDetail{{Date: date("2025-07-01"), TempPlaceName: strPtr("Gyeongbokgung")}},
	})
	require.NoError(t, err)
	require.Len(t, p.Details, 1)

	tp, err := posts.CreatePost(ctx, &post.TravelPost{UserID: u.ID, PlanID: &p.ID, Title: "t", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, plans.DeletePlan(ctx, p.ID))

	var n int64
	require.NoError(t, db.Model(&plan.PlanDetail{}).Where("plan_id = ?", p.ID).Count(&n).Error)
	assert.Zero(t, n)

	got, err := posts.FindPostByID(ctx, tp.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PlanID)
}

func TestPlaceDelete_KeepsDetailWithTempName(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "traveller")
	places := NewPlaceRepositoryDatabase(db)
	plans := NewPlanRepositoryDatabase(db)
	ctx := context.Background()

	pl, err := places.Create(ctx, &place.Place{Name: "N Seoul Tower"})
	require.NoError(t, err)
	p, err := plans.CreatePlan(ctx, &plan.TravelPlan{
		UserID: u.ID, Title: "Seoul",
		StartDate: date("2025-07-01"), EndDate: date("2025-07-02"),
	})
	require.NoError(t, err)
	d, err := plans.AddDetail(ctx, &plan.PlanDetail{
		PlanID: p.ID, PlaceID: &pl.ID, Date: date("2025-07-01"), TempPlaceName: strPtr("Namsan"),
	})
	require.NoError(t, err)

	details, err := plans.ListDetails(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "N Seoul Tower", details[0].DisplayPlace())

	require.NoError(t, places.Delete(ctx, pl.ID))

	details, err = plans.ListDetails(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, d.ID, details[0].ID)
	assert.Nil(t, details[0].PlaceID)
	assert.Equal(t, "Namsan", details[0].DisplayPlace())
}

func TestPlanRepository_DetailNeedsExistingPlan(t *testing.T) {
	repo := NewPlanRepositoryDatabase(newTestDB(t))
	_, err := repo.AddDetail(context.Background(), &plan.PlanDetail{PlanID: 999, Date: date("2025-01-01")})
	assert.ErrorIs(t, err, integrity.ErrReference)
}

func TestPlanRepository_ListPublicOnly(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "traveller")
	repo := NewPlanRepositoryDatabase(db)
	ctx := context.Background()

	for _, public := range []bool{true, false} {
		_, err := repo.CreatePlan(ctx, &plan.TravelPlan{
			UserID: u.ID, Title: "p", IsPublic: public,
			StartDate: date("2025-01-01"), EndDate: date("2025-01-02"),
		})
		require.NoError(t, err)
	}

	all, err := repo.ListPlansByUser(ctx, u.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	public, err := repo.ListPlansByUser(ctx, u.ID, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.True(t, public[0].IsPublic)
}
