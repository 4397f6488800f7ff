package database

import (
	"context"
	"testing"
	"time"

	"travelhub/internal/core/integrity"
	"travelhub/internal/core/reservation"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFlightReservation(userID uuid.UUID) *reservation.Reservation {
	start := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)
	passenger := uuid.Must(uuid.NewV4())
	return &reservation.Reservation{
		UserID:      userID,
		Title:       "ICN-NRT",
		StartAt:     start,
		EndAt:       &end,
		TotalAmount: decimal.RequireFromString("452000.00"),
		TestOrderNo: "TEST-0001",
		Flight: &reservation.ReservationFlight{
			TripType:   reservation.TripRoundTrip,
			CabinClass: "ECONOMY",
			Adults:     intPtr(1),
		},
		Segments: []reservation.ReservationFlightSegment{
			{Direction: reservation.DirectionOutbound, SegmentNo: 1, DepAirport: "ICN", ArrAirport: "NRT", DepAt: start, ArrAt: start.Add(2 * time.Hour)},
			{Direction: reservation.DirectionInbound, SegmentNo: 1, DepAirport: "NRT", ArrAirport: "ICN", DepAt: end, ArrAt: end.Add(2 * time.Hour)},
		},
		Passengers: []reservation.ReservationPassenger{
			{ID: passenger, PassengerType: reservation.PassengerAdult, FullName: "KIM MINA"},
		},
		SeatSelections: []reservation.ReservationSeatSelection{
			{PassengerID: &passenger, Direction: reservation.DirectionOutbound, SegmentNo: 1, SeatNo: strPtr("32A")},
		},
	}
}

func createReservation(t *testing.T, db *gorm.DB, userID uuid.UUID) *reservation.Reservation {
	t.Helper()
	r, err := NewReservationRepositoryDatabase(db).Create(context.Background(), newFlightReservation(userID))
	require.NoError(t, err)
	return r
}

func TestReservationRepository_CreateAndLoad(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "flyer")
	repo := NewReservationRepositoryDatabase(db)

	r := createReservation(t, db, u.ID)
	assert.Equal(t, reservation.StatusPending, r.Status)
	assert.Equal(t, reservation.TypeFlight, r.Type)
	assert.Equal(t, "KRW", r.Currency)

	got, err := repo.FindByID(context.Background(), r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Flight)
	assert.Equal(t, reservation.TripRoundTrip, got.Flight.TripType)
	assert.True(t, decimal.RequireFromString("452000").Equal(got.TotalAmount))
	require.Len(t, got.Segments, 2)
	assert.Equal(t, reservation.DirectionInbound, got.Segments[0].Direction)
	assert.Equal(t, reservation.DirectionOutbound, got.Segments[1].Direction)
	require.Len(t, got.Passengers, 1)
	require.Len(t, got.SeatSelections, 1)
	assert.Nil(t, got.Payment)
}

func TestReservationRepository_AdultsKeptAsGiven(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "flyer")
	repo := NewReservationRepositoryDatabase(db)
	ctx := context.Background()

	r := newFlightReservation(u.ID)
	r.Flight.Adults = intPtr(0)
	r.Flight.Children = 1
	r, err := repo.Create(ctx, r)
	require.NoError(t, err)
	got, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Flight.Adults)
	assert.Equal(t, 0, *got.Flight.Adults)
	assert.Equal(t, 1, got.Flight.Travellers())

	r = newFlightReservation(u.ID)
	r.Flight.Adults = nil
	r, err = repo.Create(ctx, r)
	require.NoError(t, err)
	got, err = repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.DefaultAdults, got.Flight.AdultCount())
}

func TestReservationRepository_RejectsInvalidRows(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "flyer")
	repo := NewReservationRepositoryDatabase(db)
	ctx := context.Background()

	r := newFlightReservation(u.ID)
	r.TotalAmount = decimal.NewFromInt(-1)
	_, err := repo.Create(ctx, r)
	assert.ErrorIs(t, err, integrity.ErrValidation)

	r = newFlightReservation(u.ID)
	r.Type = reservation.TypeTrain
	_, err = repo.Create(ctx, r)
	assert.ErrorIs(t, err, integrity.ErrValidation)

	r = newFlightReservation(u.ID)
	r.Segments[0].Direction = "SIDEWAYS"
	_, err = repo.Create(ctx, r)
	assert.ErrorIs(t, err, integrity.ErrValidation)

	var n int64
	require.NoError(t, db.Model(&reservation.Reservation{}).Count(&n).Error)
	assert.Zero(t, n, "a failed create leaves nothing behind")
}

func TestReservationRepository_UpdateStatusIsPermissive(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "flyer")
	repo := NewReservationRepositoryDatabase(db)
	ctx := context.Background()
	r := createReservation(t, db, u.ID)

	prev, err := repo.UpdateStatus(ctx, r.ID, reservation.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusPending, prev)

	prev, err = repo.UpdateStatus(ctx, r.ID, reservation.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusCancelled, prev)

	_, err = repo.UpdateStatus(ctx, r.ID, "LOST")
	assert.ErrorIs(t, err, integrity.ErrValidation)

	_, err = repo.UpdateStatus(ctx, uuid.Must(uuid.NewV4()), reservation.StatusFailed)
	assert.ErrorIs(t, err, integrity.ErrNotFound)
}

func TestReservationDelete_CascadesDetailsKeepsPayment(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "flyer")
	repo := NewReservationRepositoryDatabase(db)
	payments := NewPaymentRepositoryDatabase(db)
	ctx := context.Background()
	r := createReservation(t, db, u.ID)

	p, err := payments.Create(ctx, &reservation.PaymentTransaction{UserID: u.ID, OrderID: "order-1", Amount: r.TotalAmount})
	require.NoError(t, err)
	require.NoError(t, payments.LinkReservation(ctx, p.ID, r.ID))

	got, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Payment)
	assert.Equal(t, p.ID, got.Payment.ID)

	require.NoError(t, repo.Delete(ctx, r.ID))

	for _, m := range []any{
		&reservation.ReservationFlight{},
		&reservation.ReservationFlightSegment{},
		&reservation.ReservationPassenger{},
		&reservation.ReservationSeatSelection{},
	} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T", m)
	}

	kept, err := payments.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.ReservationID)
	assert.False(t, kept.Linked())
}

func TestPassengerDelete_KeepsSeatSelection(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "flyer")
	r := createReservation(t, db, u.ID)

	require.NoError(t, db.Delete(&reservation.ReservationPassenger{}, "id = ?", r.Passengers[0].ID).Error)

	var seat reservation.ReservationSeatSelection
	require.NoError(t, db.First(&seat, "id = ?", r.SeatSelections[0].ID).Error)
	assert.Nil(t, seat.PassengerID)
	assert.Equal(t, "32A", *seat.SeatNo)
}
