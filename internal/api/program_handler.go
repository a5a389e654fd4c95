package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
	"github.com/shourjoguha/Gainsly-sub000/internal/service"
)

type ProgramHandler struct {
	programService    service.ProgramService
	generationService service.GenerationService
}

func NewProgramHandler(programService service.ProgramService, generationService service.GenerationService) *ProgramHandler {
	return &ProgramHandler{
		programService:    programService,
		generationService: generationService,
	}
}

// --- DTOs ---

type GoalWeightRequest struct {
	Goal   domain.Goal `json:"goal" binding:"required,oneof=strength hypertrophy endurance fat_loss mobility"`
	Weight int         `json:"weight" binding:"required,min=1,max=10"`
}

type SchedulingPrefsRequest struct {
	CardioPreference   domain.CardioPreference      `json:"cardioPreference" binding:"omitempty,oneof=finisher dedicated_day mixed"`
	AvoidCardioDays    bool                         `json:"avoidCardioDays"`
	DedicatedCardioDay domain.DedicatedCardioPolicy `json:"dedicatedCardioDay" binding:"omitempty,oneof=auto never"`
}

type CreateProgramRequest struct {
	Name              string                 `json:"name" binding:"required"`
	StartDate         *time.Time             `json:"startDate"`
	DurationWeeks     int                    `json:"durationWeeks" binding:"required"`
	Goals             []GoalWeightRequest    `json:"goals" binding:"required,min=1,max=3,dive"`
	DaysPerWeek       int                    `json:"daysPerWeek" binding:"required"`
	DeloadEveryN      int                    `json:"deloadEveryN"`
	MaxSessionMinutes int                    `json:"maxSessionMinutes"`
	Prefs             SchedulingPrefsRequest `json:"prefs"`
	Experience        domain.ExperienceLevel `json:"experience" binding:"omitempty,oneof=beginner intermediate advanced"`
}

// CreateProgramResponse returns the program shell plus the generation job ID;
// session content arrives asynchronously.
type CreateProgramResponse struct {
	Program domain.Program `json:"program"`
	JobID   string         `json:"jobId"`
}

type NextMicrocycleResponse struct {
	Microcycle domain.Microcycle `json:"microcycle"`
	JobID      string            `json:"jobId"`
}

type ExportResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// CreateProgram godoc
// @Summary Create a training program
// @Description Validates the inputs, persists the full microcycle/session
// @Description skeleton, and kicks off asynchronous content generation for
// @Description the first microcycle.
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program body CreateProgramRequest true "Program parameters"
// @Success 202 {object} CreateProgramResponse "Program created; generation queued"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs [post]
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	in := service.CreateProgramInput{
		Name:              req.Name,
		DurationWeeks:     req.DurationWeeks,
		DaysPerWeek:       req.DaysPerWeek,
		DeloadEveryN:      req.DeloadEveryN,
		MaxSessionMinutes: req.MaxSessionMinutes,
		Experience:        req.Experience,
		Prefs: domain.SchedulingPrefs{
			CardioPreference:   req.Prefs.CardioPreference,
			AvoidCardioDays:    req.Prefs.AvoidCardioDays,
			DedicatedCardioDay: req.Prefs.DedicatedCardioDay,
		},
	}
	if req.StartDate != nil {
		in.StartDate = *req.StartDate
	}
	for _, g := range req.Goals {
		in.Goals = append(in.Goals, domain.GoalWeight{Goal: g.Goal, Weight: g.Weight})
	}

	program, jobID, err := h.programService.CreateProgram(c.Request.Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWeightsSum),
			errors.Is(err, domain.ErrDuplicateGoal),
			errors.Is(err, domain.ErrUnknownGoal),
			errors.Is(err, domain.ErrNegativeGoalWeight),
			errors.Is(err, domain.ErrBadDuration),
			errors.Is(err, domain.ErrBadDaysPerWeek):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrQueueFull):
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create program")
		}
		return
	}

	c.JSON(http.StatusAccepted, CreateProgramResponse{Program: *program, JobID: jobID.String()})
}

// GetProgram returns the program with all microcycles and sessions, including
// each session's generation status.
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	userID, programID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}
	detail, err := h.programService.GetProgram(c.Request.Context(), userID, programID)
	if err != nil {
		h.mapProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListPrograms returns all programs owned by the authenticated user.
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	programs, err := h.programService.ListPrograms(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list programs")
		return
	}
	c.JSON(http.StatusOK, programs)
}

// NextMicrocycle godoc
// @Summary Advance a program to its next microcycle
// @Description Completes the active microcycle, activates the next, and
// @Description queues its content generation.
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 202 {object} NextMicrocycleResponse
// @Failure 404 {object} gin.H "Program not found"
// @Failure 409 {object} gin.H "Program has no remaining microcycles"
// @Router /programs/{id}/next-microcycle [post]
func (h *ProgramHandler) NextMicrocycle(c *gin.Context) {
	userID, programID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}
	micro, jobID, err := h.programService.GenerateNextMicrocycle(c.Request.Context(), userID, programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramFinished) {
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		h.mapProgramError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, NextMicrocycleResponse{Microcycle: *micro, JobID: jobID.String()})
}

// ExportProgram archives a JSON snapshot and returns a presigned download URL.
func (h *ProgramHandler) ExportProgram(c *gin.Context) {
	userID, programID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}
	url, err := h.programService.ExportProgram(c.Request.Context(), userID, programID)
	if err != nil {
		h.mapProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExportResponse{DownloadURL: url})
}

// GetJob returns the status of one generation job by correlation ID.
func (h *ProgramHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid job ID format.")
		return
	}
	job, err := h.generationService.JobStatus(c.Request.Context(), jobID)
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Job not found")
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *ProgramHandler) idsFromRequest(c *gin.Context) (userID, programID primitive.ObjectID, ok bool) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return userID, programID, false
	}
	programID, err = primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return userID, programID, false
	}
	return userID, programID, true
}

func (h *ProgramHandler) mapProgramError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNoActiveMicrocycle):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
