package reservation

import (
	"time"

	"travelhub/internal/core/integrity"
	"travelhub/internal/core/user"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reservation is the common header of any booking and the aggregate root
// of its detail rows. Deleting it removes flight, segments, passengers and
// seats, and only unlinks the payment.
type Reservation struct {
	ID          uuid.UUID       `gorm:"primaryKey;type:char(36)" json:"id"`
	UserID      uuid.UUID       `gorm:"type:char(36);not null;index" json:"user_id"`
	User        user.User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Type        Type            `gorm:"type:varchar(10);not null;default:'FLIGHT'" json:"type" validate:"required,enum"`
	Status      Status          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status" validate:"required,enum"`
	Title       string          `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	StartAt     time.Time       `gorm:"not null" json:"start_at" validate:"required"`
	EndAt       *time.Time      `json:"end_at,omitempty"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'KRW'" json:"currency" validate:"required,len=3"`
	Provider    *string         `gorm:"type:varchar(50)" json:"provider,omitempty" validate:"omitempty,max=50"`
	ProviderRef *string         `gorm:"type:varchar(120)" json:"provider_ref,omitempty" validate:"omitempty,max=120"`
	TestOrderNo string          `gorm:"type:varchar(80);not null" json:"test_order_no" validate:"required,max=80"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Flight         *ReservationFlight         `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"flight_detail,omitempty" validate:"-"`
	Segments       []ReservationFlightSegment `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"segments,omitempty" validate:"-"`
	Passengers     []ReservationPassenger     `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"passengers,omitempty" validate:"-"`
	SeatSelections []ReservationSeatSelection `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"seat_selections,omitempty" validate:"-"`
	Payment        *PaymentTransaction        `gorm:"foreignKey:ReservationID;constraint:OnDelete:SET NULL" json:"payment,omitempty" validate:"-"`
}

func (Reservation) TableName() string { return "reservations" }

func (Reservation) DefaultOrder() string { return "created_at DESC" }

func (r *Reservation) Validate() error {
	if err := integrity.Check(r); err != nil {
		return err
	}
	if r.UserID == uuid.Nil {
		return integrity.Invalid("Reservation", "user_id", "required")
	}
	if r.TotalAmount.IsNegative() {
		return integrity.Invalid("Reservation", "total_amount", "gte=0")
	}
	if r.EndAt != nil && r.EndAt.Before(r.StartAt) {
		return integrity.Invalid("Reservation", "end_at", "gtefield=start_at")
	}
	return nil
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.Must(uuid.NewV4())
	}
	if r.Type == "" {
		r.Type = TypeFlight
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
	return r.Validate()
}

// ReservationFlight is the FLIGHT extension; its primary key is the
// reservation id.
type ReservationFlight struct {
	ReservationID  uuid.UUID `gorm:"primaryKey;type:char(36)" json:"reservation_id"`
	TripType       TripType  `gorm:"type:varchar(10);not null" json:"trip_type" validate:"enum"`
	CabinClass     string    `gorm:"type:varchar(30);not null" json:"cabin_class" validate:"required,max=30"`
	Adults         *int      `gorm:"not null;default:1" json:"adults" validate:"omitempty,gte=0"`
	Children       int       `gorm:"not null;default:0" json:"children" validate:"gte=0"`
	Infants        int       `gorm:"not null;default:0" json:"infants" validate:"gte=0"`
	BaggageInfo    *string   `gorm:"type:text" json:"baggage_info,omitempty"`
	RefundRule     *string   `gorm:"type:text" json:"refund_rule,omitempty"`
	SpecialRequest *string   `gorm:"type:text" json:"special_request,omitempty"`
	ContactEmail   *string   `gorm:"type:varchar(120)" json:"contact_email,omitempty" validate:"omitempty,max=120,email"`
	ContactPhone   *string   `gorm:"type:varchar(40)" json:"contact_phone,omitempty" validate:"omitempty,max=40"`
}

func (ReservationFlight) TableName() string { return "reservation_flights" }

func (f *ReservationFlight) Validate() error { return integrity.Check(f) }

// BeforeCreate fills adults only when it was left unset; an explicit 0 is kept.
func (f *ReservationFlight) BeforeCreate(tx *gorm.DB) error {
	if f.Adults == nil {
		adults := DefaultAdults
		f.Adults = &adults
	}
	return f.Validate()
}

// AdultCount is the stored adult count, or the default when unset.
func (f *ReservationFlight) AdultCount() int {
	if f.Adults == nil {
		return DefaultAdults
	}
	return *f.Adults
}

// Travellers is the headcount the fare applies to.
func (f *ReservationFlight) Travellers() int { return f.AdultCount() + f.Children + f.Infants }

// ReservationFlightSegment is one directional leg, ordered by
// (direction, segment_no).
type ReservationFlightSegment struct {
	ID                   uuid.UUID           `gorm:"primaryKey;type:char(36)" json:"id"`
	ReservationID        uuid.UUID           `gorm:"type:char(36);not null;index" json:"reservation_id"`
	Direction            Direction           `gorm:"type:varchar(10);not null" json:"direction" validate:"enum"`
	SegmentNo            int                 `gorm:"not null" json:"segment_no" validate:"gte=0"`
	AirlineCode          *string             `gorm:"type:varchar(10)" json:"airline_code,omitempty" validate:"omitempty,max=10"`
	FlightNo             *string             `gorm:"type:varchar(20)" json:"flight_no,omitempty" validate:"omitempty,max=20"`
	DepAirport           string              `gorm:"type:varchar(10);not null" json:"dep_airport" validate:"required,max=10"`
	ArrAirport           string              `gorm:"type:varchar(10);not null" json:"arr_airport" validate:"required,max=10"`
	DepAt                time.Time           `gorm:"not null" json:"dep_at" validate:"required"`
	ArrAt                time.Time           `gorm:"not null" json:"arr_at" validate:"required"`
	DurationMin          *int                `json:"duration_min,omitempty" validate:"omitempty,gte=0"`
	FarePerPerson        decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"fare_per_person"`
	SeatAvailabilityNote *string             `gorm:"type:varchar(80)" json:"seat_availability_note,omitempty" validate:"omitempty,max=80"`
}

func (ReservationFlightSegment) TableName() string { return "reservation_flight_segments" }

// DefaultOrder compares direction as plain text, so INBOUND legs list first.
func (ReservationFlightSegment) DefaultOrder() string { return "direction ASC, segment_no ASC" }

func (s *ReservationFlightSegment) Validate() error { return integrity.Check(s) }

func (s *ReservationFlightSegment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.Must(uuid.NewV4())
	}
	return s.Validate()
}

type ReservationPassenger struct {
	ID            uuid.UUID       `gorm:"primaryKey;type:char(36)" json:"id"`
	ReservationID uuid.UUID       `gorm:"type:char(36);not null;index" json:"reservation_id"`
	PassengerType PassengerType   `gorm:"type:varchar(10);not null" json:"passenger_type" validate:"enum"`
	FullName      string          `gorm:"type:varchar(100);not null" json:"full_name" validate:"required,max=100"`
	BirthDate     *datatypes.Date `json:"birth_date,omitempty"`
	PassportNo    *string         `gorm:"type:varchar(30)" json:"passport_no,omitempty" validate:"omitempty,max=30"`
}

func (ReservationPassenger) TableName() string { return "reservation_passengers" }

func (p *ReservationPassenger) Validate() error { return integrity.Check(p) }

func (p *ReservationPassenger) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.Must(uuid.NewV4())
	}
	return p.Validate()
}

// ReservationSeatSelection keeps its row when the passenger is removed.
type ReservationSeatSelection struct {
	ID            uuid.UUID             `gorm:"primaryKey;type:char(36)" json:"id"`
	ReservationID uuid.UUID             `gorm:"type:char(36);not null;index" json:"reservation_id"`
	PassengerID   *uuid.UUID            `gorm:"type:char(36);index" json:"passenger_id,omitempty"`
	Passenger     *ReservationPassenger `gorm:"foreignKey:PassengerID;constraint:OnDelete:SET NULL" json:"-" validate:"-"`
	Direction     Direction             `gorm:"type:varchar(10);not null" json:"direction" validate:"enum"`
	SegmentNo     int                   `gorm:"not null" json:"segment_no" validate:"gte=0"`
	SeatNo        *string               `gorm:"type:varchar(10)" json:"seat_no,omitempty" validate:"omitempty,max=10"`
	SeatNote      *string               `gorm:"type:text" json:"seat_note,omitempty"`
}

func (ReservationSeatSelection) TableName() string { return "reservation_seat_selections" }

func (s *ReservationSeatSelection) Validate() error { return integrity.Check(s) }

func (s *ReservationSeatSelection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.Must(uuid.NewV4())
	}
	return s.Validate()
}
