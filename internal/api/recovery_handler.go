package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shourjoguha/Gainsly-sub000/internal/service"
)

type RecoveryHandler struct {
	recoveryService service.RecoveryService
}

func NewRecoveryHandler(recoveryService service.RecoveryService) *RecoveryHandler {
	return &RecoveryHandler{recoveryService: recoveryService}
}

type LogRecoveryRequest struct {
	Date       *time.Time `json:"date"`
	SleepScore float64    `json:"sleepScore" binding:"min=0,max=100"`
	Readiness  float64    `json:"readiness" binding:"min=0,max=100"`
}

// LogSignal records a day's sleep and readiness scores (0-100).
func (h *RecoveryHandler) LogSignal(c *gin.Context) {
	var req LogRecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	date := time.Time{}
	if req.Date != nil {
		date = *req.Date
	}
	signal, err := h.recoveryService.LogSignal(c.Request.Context(), userID, date, req.SleepScore, req.Readiness)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRecoveryScore) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to record recovery signal")
		}
		return
	}
	c.JSON(http.StatusCreated, signal)
}

// DeloadCheck evaluates the deload triggers against the trailing week of
// recovery data and the active program's deload history.
func (h *RecoveryHandler) DeloadCheck(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	assessment, err := h.recoveryService.DeloadCheck(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to evaluate deload triggers")
		return
	}
	c.JSON(http.StatusOK, assessment)
}
