package httpapi

import (
	"errors"
	"net/http"

	"travelhub/internal/core/integrity"

	"github.com/gin-gonic/gin"
)

type UserController struct{ uc UserUseCase }

func NewUserController(uc UserUseCase) *UserController { return &UserController{uc: uc} }

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser creates a regular account; staff accounts are only made at startup.
func (ctl *UserController) RegisterUser(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.uc.RegisterUser(c.Request.Context(), req.Username, req.Password, false)
	if err != nil {
		switch {
		case errors.Is(err, integrity.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "username taken"})
		case errors.Is(err, integrity.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register user"})
		}
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *UserController) LoginUser(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.uc.LoginUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// AdminLogin issues a token for staff accounts only.
func (ctl *UserController) AdminLogin(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.uc.LoginUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !res.IsStaff {
		c.JSON(http.StatusForbidden, gin.H{"error": "staff account required"})
		return
	}
	c.JSON(http.StatusOK, res)
}
