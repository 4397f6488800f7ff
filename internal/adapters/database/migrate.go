package database

import (
	"fmt"

	"travelhub/internal/core/place"
	"travelhub/internal/core/plan"
	"travelhub/internal/core/post"
	"travelhub/internal/core/reservation"
	"travelhub/internal/core/user"

	"gorm.io/gorm"
)

// Models lists every table, parents before children so that foreign keys
// always point at an existing table.
func Models() []any {
	return []any{
		&user.User{},
		&place.Place{},
		&plan.TravelPlan{},
		&plan.PlanDetail{},
		&post.TravelPost{},
		&post.PostLike{},
		&post.Comment{},
		&reservation.Reservation{},
		&reservation.ReservationFlight{},
		&reservation.ReservationFlightSegment{},
		&reservation.ReservationPassenger{},
		&reservation.ReservationSeatSelection{},
		&reservation.PaymentTransaction{},
	}
}

// Migrate creates or updates all tables, indexes and constraints.
func Migrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	return nil
}
