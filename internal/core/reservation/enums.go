package reservation

import "errors"

// Type selects which one-to-one detail extension a reservation carries.
// Only FLIGHT has one so far.
type Type string

const (
	TypeFlight Type = "FLIGHT"
	TypeTrain  Type = "TRAIN"
	TypeSubway Type = "SUBWAY"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeFlight, TypeTrain, TypeSubway:
		return true
	}
	return false
}

// Status is the only place booking lifecycle state lives. No transition is
// forbidden here; the payment and cancellation flows decide.
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusConfirmedTest Status = "CONFIRMED_TEST"
	StatusCancelled     Status = "CANCELLED"
	StatusFailed        Status = "FAILED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmedTest, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

type TripType string

const (
	TripOneWay    TripType = "ONEWAY"
	TripRoundTrip TripType = "ROUNDTRIP"
)

func (t TripType) IsValid() bool { return t == TripOneWay || t == TripRoundTrip }

type Direction string

const (
	DirectionOutbound Direction = "OUTBOUND"
	DirectionInbound  Direction = "INBOUND"
)

func (d Direction) IsValid() bool { return d == DirectionOutbound || d == DirectionInbound }

type PassengerType string

const (
	PassengerAdult  PassengerType = "ADT"
	PassengerChild  PassengerType = "CHD"
	PassengerInfant PassengerType = "INF"
)

func (p PassengerType) IsValid() bool {
	switch p {
	case PassengerAdult, PassengerChild, PassengerInfant:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentReady   PaymentStatus = "READY"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentReady, PaymentSuccess, PaymentFailed:
		return true
	}
	return false
}

// ErrPaymentState is returned when a payment is confirmed or failed after it
// left READY.
var ErrPaymentState = errors.New("payment is not in READY state")

const (
	DefaultCurrency        = "KRW"
	DefaultPaymentProvider = "TOSS_PAYMENTS"
	DefaultAdults          = 1
)
