package httpapi

import (
	"fmt"
	"net/http"

	"travelhub/internal/adapters/httpapi/respond"
	"travelhub/internal/core/integrity"
	planapp "travelhub/internal/core/plan/service"
	planPort "travelhub/internal/ports/plan"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PlanController struct {
	pc     PlanUseCase
	logger *zap.Logger
}

func NewPlanController(pc PlanUseCase, logger *zap.Logger) *PlanController {
	return &PlanController{pc: pc, logger: logger}
}

func (ctl *PlanController) CreatePlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Title       string  `json:"title" binding:"required"`
		Description *string `json:"description"`
		PlanType    string  `json:"plan_type"`
		AIPrompt    *string `json:"ai_prompt"`
		StartDate   string  `json:"start_date" binding:"required"`
		EndDate     string  `json:"end_date" binding:"required"`
		IsPublic    bool    `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.pc.CreatePlan(c.Request.Context(), planapp.CreatePlanInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		PlanType:    req.PlanType,
		AIPrompt:    req.AIPrompt,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// itinerary loads the plan; private plans are only visible to their owner.
func (ctl *PlanController) itinerary(c *gin.Context, ownerOnly bool) (*planPort.ItineraryDTO, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}
	it, err := ctl.pc.GetItinerary(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, ctl.logger, err)
		return nil, false
	}
	if it.UserID != userID && (ownerOnly || !it.IsPublic) {
		respond.Error(c, ctl.logger, fmt.Errorf("plan %d: %w", id, integrity.ErrNotFound))
		return nil, false
	}
	return it, true
}

func (ctl *PlanController) GetItinerary(c *gin.Context) {
	if it, ok := ctl.itinerary(c, false); ok {
		c.JSON(http.StatusOK, it)
	}
}

func (ctl *PlanController) AddDetail(c *gin.Context) {
	it, ok := ctl.itinerary(c, true)
	if !ok {
		return
	}
	var req struct {
		PlaceID          *uint   `json:"place_id"`
		Date             string  `json:"date" binding:"required"`
		Description      *string `json:"description"`
		OrderIndex       int     `json:"order_index"`
		TempPlaceName    *string `json:"temp_place_name"`
		TempPlaceAddress *string `json:"temp_place_address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.pc.AddDetail(c.Request.Context(), planapp.AddDetailInput{
		PlanID:           it.ID,
		PlaceID:          req.PlaceID,
		Date:             req.Date,
		Description:      req.Description,
		OrderIndex:       req.OrderIndex,
		TempPlaceName:    req.TempPlaceName,
		TempPlaceAddress: req.TempPlaceAddress,
	})
	if err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *PlanController) DeletePlan(c *gin.Context) {
	it, ok := ctl.itinerary(c, true)
	if !ok {
		return
	}
	if err := ctl.pc.DeletePlan(c.Request.Context(), it.ID); err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
