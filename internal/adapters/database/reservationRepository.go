package database

import (
	"context"
	"fmt"

	"travelhub/internal/core/integrity"
	"travelhub/internal/core/reservation"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationRepositoryDatabase implements ReservationRepository on gorm.
type ReservationRepositoryDatabase struct {
	db *gorm.DB
}

func NewReservationRepositoryDatabase(db *gorm.DB) *ReservationRepositoryDatabase {
	return &ReservationRepositoryDatabase{db: db}
}

// Create writes the header and every detail row in one transaction.
// Passengers go in before seat selections so seats may point at them.
func (repo *ReservationRepositoryDatabase) Create(ctx context.Context, r *reservation.Reservation) (*reservation.Reservation, error) {
	if r.Flight != nil && r.Type != "" && r.Type != reservation.TypeFlight {
		return nil, integrity.Invalid("Reservation", "flight_detail", "type=FLIGHT")
	}

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(r).Error; err != nil {
			return err
		}
		if r.Flight != nil {
			r.Flight.ReservationID = r.ID
			if err := tx.Create(r.Flight).Error; err != nil {
				return err
			}
		}
		for i := range r.Segments {
			r.Segments[i].ReservationID = r.ID
		}
		for i := range r.Passengers {
			r.Passengers[i].ReservationID = r.ID
		}
		for i := range r.SeatSelections {
			r.SeatSelections[i].ReservationID = r.ID
		}
		if len(r.Segments) > 0 {
			if err := tx.Create(&r.Segments).Error; err != nil {
				return err
			}
		}
		if len(r.Passengers) > 0 {
			if err := tx.Create(&r.Passengers).Error; err != nil {
				return err
			}
		}
		if len(r.SeatSelections) > 0 {
			if err := tx.Omit(clause.Associations).Create(&r.SeatSelections).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, Translate(err, "create reservation")
	}
	return r, nil
}

// FindByID loads the reservation with all detail rows; segments come back
// in (direction, segment_no) order. Payment is nil when none is linked.
func (repo *ReservationRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	var r reservation.Reservation
	err := repo.db.WithContext(ctx).
		Preload("Flight").
		Preload("Segments", func(db *gorm.DB) *gorm.DB {
			return db.Order(reservation.ReservationFlightSegment{}.DefaultOrder())
		}).
		Preload("Passengers").
		Preload("SeatSelections").
		Preload("Payment").
		First(&r, "id = ?", id).Error
	if err != nil {
		return nil, Translate(err, "find reservation")
	}
	return &r, nil
}

func (repo *ReservationRepositoryDatabase) ListByUser(ctx context.Context, userID uuid.UUID) ([]*reservation.Reservation, error) {
	var list []*reservation.Reservation
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(reservation.Reservation{}.DefaultOrder()).
		Find(&list).Error
	if err != nil {
		return nil, Translate(err, "list reservations")
	}
	return list, nil
}

// UpdateStatus writes any valid status over any other and returns the one
// it replaced.
func (repo *ReservationRepositoryDatabase) UpdateStatus(ctx context.Context, id uuid.UUID, status reservation.Status) (reservation.Status, error) {
	if !status.IsValid() {
		return "", integrity.Invalid("Reservation", "status", "enum")
	}
	var previous reservation.Status
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current reservation.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "status").
			First(&current, "id = ?", id).Error; err != nil {
			return err
		}
		previous = current.Status
		return tx.Model(&reservation.Reservation{}).
			Where("id = ?", id).
			Update("status", status).Error
	})
	if err != nil {
		return "", Translate(err, fmt.Sprintf("update reservation %s status", id))
	}
	return previous, nil
}

// Delete removes the reservation and its detail rows; a linked payment is
// kept with reservation_id set to NULL.
func (repo *ReservationRepositoryDatabase) Delete(ctx context.Context, id uuid.UUID) error {
	return mustAffect(repo.db.WithContext(ctx).Delete(&reservation.Reservation{}, "id = ?", id), "delete reservation")
}
