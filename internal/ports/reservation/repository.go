package reservation

import (
	"context"
	"time"

	"travelhub/internal/core/reservation"

	"github.com/gofrs/uuid"
)

// ReservationRepository persists a booking header with its detail rows.
type ReservationRepository interface {
	Create(ctx context.Context, r *reservation.Reservation) (*reservation.Reservation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*reservation.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status reservation.Status) (previous reservation.Status, err error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentRepository persists payment attempts; reservation_id may be nil.
type PaymentRepository interface {
	Create(ctx context.Context, p *reservation.PaymentTransaction) (*reservation.PaymentTransaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.PaymentTransaction, error)
	FindByOrderID(ctx context.Context, orderID string) (*reservation.PaymentTransaction, error)
	LinkReservation(ctx context.Context, paymentID, reservationID uuid.UUID) error
	MarkSucceeded(ctx context.Context, paymentID uuid.UUID, paymentKey string) error
	MarkFailed(ctx context.Context, paymentID uuid.UUID, code, message string) error
	// Confirm links a READY payment to a reservation of the same user, marks
	// it SUCCESS and moves the reservation to CONFIRMED_TEST, all or nothing.
	Confirm(ctx context.Context, paymentID, reservationID uuid.UUID, paymentKey string) (previous reservation.Status, err error)
	ListUnlinked(ctx context.Context, userID uuid.UUID) ([]*reservation.PaymentTransaction, error)
}

// EventPublisher notifies downstream consumers of status changes.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, ev StatusChangedEvent) error
}

type StatusChangedEvent struct {
	ReservationID string    `json:"reservation_id"`
	UserID        string    `json:"user_id"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	ChangedAt     time.Time `json:"changed_at"`
}
