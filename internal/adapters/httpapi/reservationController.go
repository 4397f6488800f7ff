package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"travelhub/internal/adapters/httpapi/respond"
	"travelhub/internal/core/integrity"
	"travelhub/internal/core/reservation"
	reservationapp "travelhub/internal/core/reservation/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ReservationController struct {
	rc     ReservationUseCase
	logger *zap.Logger
}

func NewReservationController(rc ReservationUseCase, logger *zap.Logger) *ReservationController {
	return &ReservationController{rc: rc, logger: logger}
}

func (ctl *ReservationController) CreateFlightReservation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Title          string                                 `json:"title" binding:"required"`
		StartAt        time.Time                              `json:"start_at" binding:"required"`
		EndAt          *time.Time                             `json:"end_at"`
		TotalAmount    decimal.Decimal                        `json:"total_amount"`
		Currency       string                                 `json:"currency"`
		Provider       *string                                `json:"provider"`
		Flight         reservation.ReservationFlight          `json:"flight_detail"`
		Segments       []reservation.ReservationFlightSegment `json:"segments"`
		Passengers     []reservation.ReservationPassenger     `json:"passengers"`
		SeatSelections []reservation.ReservationSeatSelection `json:"seat_selections"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.rc.CreateFlightReservation(c.Request.Context(), reservationapp.FlightReservationInput{
		UserID:         userID,
		Title:          req.Title,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		TotalAmount:    req.TotalAmount,
		Currency:       req.Currency,
		Provider:       req.Provider,
		Flight:         req.Flight,
		Segments:       req.Segments,
		Passengers:     req.Passengers,
		SeatSelections: req.SeatSelections,
	})
	if err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// owned loads the reservation in :id when it belongs to the caller.
func (ctl *ReservationController) owned(c *gin.Context, param string) (*reservation.Reservation, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	id, ok := uuidParam(c, param)
	if !ok {
		return nil, false
	}
	r, err := ctl.rc.GetReservation(c.Request.Context(), id)
	if err == nil && r.UserID.String() != userID {
		err = fmt.Errorf("reservation %s: %w", id, integrity.ErrNotFound)
	}
	if err != nil {
		respond.Error(c, ctl.logger, err)
		return nil, false
	}
	return r, true
}

func (ctl *ReservationController) GetReservation(c *gin.Context) {
	if r, ok := ctl.owned(c, "id"); ok {
		c.JSON(http.StatusOK, r)
	}
}

func (ctl *ReservationController) ListReservations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := ctl.rc.ListReservations(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": res})
}

func (ctl *ReservationController) CancelReservation(c *gin.Context) {
	r, ok := ctl.owned(c, "id")
	if !ok {
		return
	}
	if err := ctl.rc.CancelReservation(c.Request.Context(), r.ID.String()); err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *ReservationController) DeleteReservation(c *gin.Context) {
	r, ok := ctl.owned(c, "id")
	if !ok {
		return
	}
	if err := ctl.rc.DeleteReservation(c.Request.Context(), r.ID.String()); err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *ReservationController) StartPayment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		OrderID string          `json:"order_id" binding:"required"`
		Amount  decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.rc.StartPayment(c.Request.Context(), userID, req.OrderID, req.Amount)
	if err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ownedPayment loads the payment in :id when it belongs to the caller.
func (ctl *ReservationController) ownedPayment(c *gin.Context) (*reservation.PaymentTransaction, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return nil, false
	}
	p, err := ctl.rc.GetPayment(c.Request.Context(), id)
	if err == nil && p.UserID.String() != userID {
		err = fmt.Errorf("payment %s: %w", id, integrity.ErrNotFound)
	}
	if err != nil {
		respond.Error(c, ctl.logger, err)
		return nil, false
	}
	return p, true
}

func (ctl *ReservationController) ConfirmPayment(c *gin.Context) {
	p, ok := ctl.ownedPayment(c)
	if !ok {
		return
	}
	var req struct {
		ReservationID string `json:"reservation_id" binding:"required,uuid"`
		PaymentKey    string `json:"payment_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := ctl.rc.ConfirmPayment(c.Request.Context(), p.ID.String(), req.ReservationID, req.PaymentKey); err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *ReservationController) FailPayment(c *gin.Context) {
	p, ok := ctl.ownedPayment(c)
	if !ok {
		return
	}
	var req struct {
		Code    string `json:"code" binding:"required"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := ctl.rc.FailPayment(c.Request.Context(), p.ID.String(), req.Code, req.Message); err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
