package reservationapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	resEntity "travelhub/internal/core/reservation"
	resPort "travelhub/internal/ports/reservation"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrPaymentState is returned when a payment is confirmed or failed twice.
var ErrPaymentState = resEntity.ErrPaymentState

type ReservationService struct {
	ReservationRepository resPort.ReservationRepository
	PaymentRepository     resPort.PaymentRepository
	Publisher             resPort.EventPublisher
	Logger                *zap.Logger
}

func NewReservationService(
	reservationRepo resPort.ReservationRepository,
	paymentRepo resPort.PaymentRepository,
	publisher resPort.EventPublisher,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		ReservationRepository: reservationRepo,
		PaymentRepository:     paymentRepo,
		Publisher:             publisher,
		Logger:                logger,
	}
}

type FlightReservationInput struct {
	UserID         string
	Title          string
	StartAt        time.Time
	EndAt          *time.Time
	TotalAmount    decimal.Decimal
	Currency       string
	Provider       *string
	Flight         resEntity.ReservationFlight
	Segments       []resEntity.ReservationFlightSegment
	Passengers     []resEntity.ReservationPassenger
	SeatSelections []resEntity.ReservationSeatSelection
}

// NewTestOrderNo builds the display-only order number shown to users.
func NewTestOrderNo(now time.Time) string {
	id := strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")
	return fmt.Sprintf("TEST-%s-%s", now.UTC().Format("20060102"), strings.ToUpper(id[:8]))
}

// CreateFlightReservation stores a PENDING flight booking with all its rows.
func (s *ReservationService) CreateFlightReservation(ctx context.Context, in FlightReservationInput) (*resEntity.Reservation, error) {
	uid, err := uuid.FromString(in.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid userID: %w", err)
	}

	flight := in.Flight
	r, err := s.ReservationRepository.Create(ctx, &resEntity.Reservation{
		UserID:         uid,
		Type:           resEntity.TypeFlight,
		Status:         resEntity.StatusPending,
		Title:          in.Title,
		StartAt:        in.StartAt,
		EndAt:          in.EndAt,
		TotalAmount:    in.TotalAmount,
		Currency:       in.Currency,
		Provider:       in.Provider,
		TestOrderNo:    NewTestOrderNo(time.Now()),
		Flight:         &flight,
		Segments:       in.Segments,
		Passengers:     in.Passengers,
		SeatSelections: in.SeatSelections,
	})
	if err != nil {
		s.Logger.Warn("Failed to create reservation", zap.String("userID", in.UserID), zap.Error(err))
		return nil, err
	}

	s.Logger.Info("Reservation created",
		zap.String("reservationID", r.ID.String()),
		zap.String("testOrderNo", r.TestOrderNo),
		zap.Int("segments", len(r.Segments)))
	return r, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, reservationID string) (*resEntity.Reservation, error) {
	id, err := uuid.FromString(reservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservationID: %w", err)
	}
	return s.ReservationRepository.FindByID(ctx, id)
}

func (s *ReservationService) ListReservations(ctx context.Context, userID string) ([]*resEntity.Reservation, error) {
	uid, err := uuid.FromString(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid userID: %w", err)
	}
	return s.ReservationRepository.ListByUser(ctx, uid)
}

// ChangeStatus sets any valid status and publishes the transition. A
// publish failure is logged only; the stored status is what counts.
func (s *ReservationService) ChangeStatus(ctx context.Context, reservationID string, to resEntity.Status) error {
	id, err := uuid.FromString(reservationID)
	if err != nil {
		return fmt.Errorf("invalid reservationID: %w", err)
	}
	return s.changeStatus(ctx, id, to)
}

func (s *ReservationService) changeStatus(ctx context.Context, id uuid.UUID, to resEntity.Status) error {
	from, err := s.ReservationRepository.UpdateStatus(ctx, id, to)
	if err != nil {
		return err
	}
	s.publishStatusChanged(ctx, id, from, to)
	return nil
}

func (s *ReservationService) publishStatusChanged(ctx context.Context, id uuid.UUID, from, to resEntity.Status) {
	if from == to {
		return
	}

	r, err := s.ReservationRepository.FindByID(ctx, id)
	if err != nil {
		s.Logger.Warn("Reservation vanished after status change", zap.String("reservationID", id.String()), zap.Error(err))
		return
	}

	ev := resPort.StatusChangedEvent{
		ReservationID: id.String(),
		UserID:        r.UserID.String(),
		From:          string(from),
		To:            string(to),
		ChangedAt:     time.Now().UTC(),
	}
	if err := s.Publisher.PublishStatusChanged(ctx, ev); err != nil {
		s.Logger.Warn("Status change not published", zap.String("reservationID", id.String()), zap.Error(err))
	}
}

func (s *ReservationService) CancelReservation(ctx context.Context, reservationID string) error {
	return s.ChangeStatus(ctx, reservationID, resEntity.StatusCancelled)
}

// DeleteReservation removes the booking with its detail rows; a linked
// payment survives with reservation_id cleared.
func (s *ReservationService) DeleteReservation(ctx context.Context, reservationID string) error {
	id, err := uuid.FromString(reservationID)
	if err != nil {
		return fmt.Errorf("invalid reservationID: %w", err)
	}
	if err := s.ReservationRepository.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("Reservation deleted", zap.String("reservationID", reservationID))
	return nil
}

// StartPayment opens a READY payment that is not yet tied to a reservation.
func (s *ReservationService) StartPayment(ctx context.Context, userID, orderID string, amount decimal.Decimal) (*resEntity.PaymentTransaction, error) {
	uid, err := uuid.FromString(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid userID: %w", err)
	}
	p, err := s.PaymentRepository.Create(ctx, &resEntity.PaymentTransaction{
		UserID:  uid,
		OrderID: orderID,
		Amount:  amount,
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Payment started", zap.String("paymentID", p.ID.String()), zap.String("orderID", orderID))
	return p, nil
}

func (s *ReservationService) GetPayment(ctx context.Context, paymentID string) (*resEntity.PaymentTransaction, error) {
	id, err := uuid.FromString(paymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid paymentID: %w", err)
	}
	return s.PaymentRepository.FindByID(ctx, id)
}

// ConfirmPayment links the payment to the reservation, marks it SUCCESS and
// confirms the reservation in one repository transaction.
func (s *ReservationService) ConfirmPayment(ctx context.Context, paymentID, reservationID, paymentKey string) error {
	pid, err := uuid.FromString(paymentID)
	if err != nil {
		return fmt.Errorf("invalid paymentID: %w", err)
	}
	rid, err := uuid.FromString(reservationID)
	if err != nil {
		return fmt.Errorf("invalid reservationID: %w", err)
	}

	from, err := s.PaymentRepository.Confirm(ctx, pid, rid, paymentKey)
	if err != nil {
		s.Logger.Warn("Payment not confirmed", zap.String("paymentID", paymentID), zap.Error(err))
		return err
	}
	s.Logger.Info("Payment confirmed", zap.String("paymentID", paymentID), zap.String("reservationID", reservationID))
	s.publishStatusChanged(ctx, rid, from, resEntity.StatusConfirmedTest)
	return nil
}

func (s *ReservationService) FailPayment(ctx context.Context, paymentID, code, message string) error {
	pid, err := uuid.FromString(paymentID)
	if err != nil {
		return fmt.Errorf("invalid paymentID: %w", err)
	}
	p, err := s.PaymentRepository.FindByID(ctx, pid)
	if err != nil {
		return err
	}
	if p.Status != resEntity.PaymentReady {
		return ErrPaymentState
	}
	s.Logger.Info("Payment failed", zap.String("paymentID", paymentID), zap.String("code", code))
	return s.PaymentRepository.MarkFailed(ctx, pid, code, message)
}
