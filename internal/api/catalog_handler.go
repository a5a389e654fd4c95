package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
	"github.com/shourjoguha/Gainsly-sub000/internal/service"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type CreateMovementRequest struct {
	Name              string         `json:"name" binding:"required"`
	Pattern           domain.Pattern `json:"pattern" binding:"required"`
	PrimaryMuscle     string         `json:"primaryMuscle" binding:"required"`
	SecondaryMuscles  []string       `json:"secondaryMuscles"`
	CNSTier           int            `json:"cnsTier" binding:"omitempty,min=1,max=3"`
	FatigueFactor     float64        `json:"fatigueFactor"`
	StimulusFactor    float64        `json:"stimulusFactor"`
	Compound          bool           `json:"compound"`
	Unilateral        bool           `json:"unilateral"`
	MinRecoveryHours  int            `json:"minRecoveryHours"`
	SubstitutionGroup string         `json:"substitutionGroup"`
}

type CreateCircuitRequest struct {
	Name            string             `json:"name" binding:"required"`
	Type            domain.CircuitType `json:"type" binding:"required,oneof=amrap emom interval"`
	DurationSeconds int                `json:"durationSeconds"`
	Rounds          int                `json:"rounds" binding:"required,min=1"`
	MovementNames   []string           `json:"movementNames" binding:"required,min=2"`
}

// CreateMovement adds a movement to the catalog. Coach only.
func (h *CatalogHandler) CreateMovement(c *gin.Context) {
	var req CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	movement := &domain.Movement{
		Name:              req.Name,
		Pattern:           req.Pattern,
		PrimaryMuscle:     req.PrimaryMuscle,
		SecondaryMuscles:  req.SecondaryMuscles,
		CNSTier:           req.CNSTier,
		FatigueFactor:     req.FatigueFactor,
		StimulusFactor:    req.StimulusFactor,
		Compound:          req.Compound,
		Unilateral:        req.Unilateral,
		MinRecoveryHours:  req.MinRecoveryHours,
		SubstitutionGroup: req.SubstitutionGroup,
	}
	created, err := h.catalogService.CreateMovement(c.Request.Context(), movement)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMovement) || errors.Is(err, service.ErrUnknownPattern) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create movement")
		}
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListMovements returns the full movement catalog.
func (h *CatalogHandler) ListMovements(c *gin.Context) {
	movements, err := h.catalogService.ListMovements(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list movements")
		return
	}
	c.JSON(http.StatusOK, movements)
}

// CreateCircuit adds a circuit template; its muscle load is aggregated from
// the catalog on creation. Coach only.
func (h *CatalogHandler) CreateCircuit(c *gin.Context) {
	var req CreateCircuitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	circuit := &domain.CircuitTemplate{
		Name:            req.Name,
		Type:            req.Type,
		DurationSeconds: req.DurationSeconds,
		Rounds:          req.Rounds,
		MovementNames:   req.MovementNames,
	}
	created, err := h.catalogService.CreateCircuit(c.Request.Context(), circuit)
	if err != nil {
		// Unknown movement references are client errors too.
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListCircuits returns every circuit template.
func (h *CatalogHandler) ListCircuits(c *gin.Context) {
	circuits, err := h.catalogService.ListCircuits(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list circuits")
		return
	}
	c.JSON(http.StatusOK, circuits)
}
