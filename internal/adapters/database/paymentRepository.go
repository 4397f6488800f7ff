package database

import (
	"context"
	"errors"

	"travelhub/internal/core/integrity"
	"travelhub/internal/core/reservation"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentRepositoryDatabase implements PaymentRepository on gorm.
type PaymentRepositoryDatabase struct {
	db *gorm.DB
}

func NewPaymentRepositoryDatabase(db *gorm.DB) *PaymentRepositoryDatabase {
	return &PaymentRepositoryDatabase{db: db}
}

// Create stores the attempt; ReservationID may be nil.
func (repo *PaymentRepositoryDatabase) Create(ctx context.Context, p *reservation.PaymentTransaction) (*reservation.PaymentTransaction, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return nil, Translate(err, "create payment")
	}
	return p, nil
}

func (repo *PaymentRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*reservation.PaymentTransaction, error) {
	var p reservation.PaymentTransaction
	if err := repo.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, Translate(err, "find payment")
	}
	return &p, nil
}

func (repo *PaymentRepositoryDatabase) FindByOrderID(ctx context.Context, orderID string) (*reservation.PaymentTransaction, error) {
	var p reservation.PaymentTransaction
	if err := repo.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at DESC").First(&p).Error; err != nil {
		return nil, Translate(err, "find payment")
	}
	return &p, nil
}

// LinkReservation attaches the payment. A reservation holds at most one
// payment, so a second link fails with integrity.ErrDuplicate.
func (repo *PaymentRepositoryDatabase) LinkReservation(ctx context.Context, paymentID, reservationID uuid.UUID) error {
	res := repo.db.WithContext(ctx).Model(&reservation.PaymentTransaction{}).
		Where("id = ?", paymentID).
		Update("reservation_id", reservationID)
	return mustAffect(res, "link payment")
}

func (repo *PaymentRepositoryDatabase) MarkSucceeded(ctx context.Context, paymentID uuid.UUID, paymentKey string) error {
	res := repo.db.WithContext(ctx).Model(&reservation.PaymentTransaction{}).
		Where("id = ?", paymentID).
		Updates(map[string]any{
			"status":       reservation.PaymentSuccess,
			"payment_key":  paymentKey,
			"fail_code":    nil,
			"fail_message": nil,
		})
	return mustAffect(res, "mark payment succeeded")
}

func (repo *PaymentRepositoryDatabase) MarkFailed(ctx context.Context, paymentID uuid.UUID, code, message string) error {
	res := repo.db.WithContext(ctx).Model(&reservation.PaymentTransaction{}).
		Where("id = ?", paymentID).
		Updates(map[string]any{
			"status":       reservation.PaymentFailed,
			"fail_code":    code,
			"fail_message": message,
		})
	return mustAffect(res, "mark payment failed")
}

// Confirm runs the whole confirmation in one transaction. The payment row is
// only written while it is still READY, so a concurrent confirm loses with
// ErrPaymentState.
func (repo *PaymentRepositoryDatabase) Confirm(ctx context.Context, paymentID, reservationID uuid.UUID, paymentKey string) (reservation.Status, error) {
	var previous reservation.Status
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p reservation.PaymentTransaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", paymentID).Error; err != nil {
			return err
		}
		if p.Status != reservation.PaymentReady {
			return reservation.ErrPaymentState
		}

		var r reservation.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "user_id", "status").
			First(&r, "id = ?", reservationID).Error; err != nil {
			return err
		}
		if r.UserID != p.UserID {
			return integrity.Invalid("PaymentTransaction", "reservation_id", "same_user")
		}
		previous = r.Status

		res := tx.Model(&reservation.PaymentTransaction{}).
			Where("id = ? AND status = ?", paymentID, reservation.PaymentReady).
			Updates(map[string]any{
				"reservation_id": reservationID,
				"status":         reservation.PaymentSuccess,
				"payment_key":    paymentKey,
				"fail_code":      nil,
				"fail_message":   nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return reservation.ErrPaymentState
		}

		return tx.Model(&reservation.Reservation{}).
			Where("id = ?", reservationID).
			Update("status", reservation.StatusConfirmedTest).Error
	})
	if errors.Is(err, reservation.ErrPaymentState) {
		return "", err
	}
	if err != nil {
		return "", Translate(err, "confirm payment")
	}
	return previous, nil
}

// ListUnlinked returns the user's payments that have no reservation, which
// is a normal state before booking or after the reservation was removed.
func (repo *PaymentRepositoryDatabase) ListUnlinked(ctx context.Context, userID uuid.UUID) ([]*reservation.PaymentTransaction, error) {
	var list []*reservation.PaymentTransaction
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND reservation_id IS NULL", userID).
		Order(reservation.PaymentTransaction{}.DefaultOrder()).
		Find(&list).Error
	if err != nil {
		return nil, Translate(err, "list payments")
	}
	return list, nil
}
