package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shourjoguha/Gainsly-sub000/internal/service"
)

type SessionHandler struct {
	programService    service.ProgramService
	generationService service.GenerationService
}

func NewSessionHandler(programService service.ProgramService, generationService service.GenerationService) *SessionHandler {
	return &SessionHandler{
		programService:    programService,
		generationService: generationService,
	}
}

// GetSession returns one session with its content and generation status.
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, sessionID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}
	sess, err := h.programService.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// RegenerateSession godoc
// @Summary Retry generation for one session
// @Description Synchronously regenerates a session's content, replaying the
// @Description earlier days of its microcycle so cycle-level rules still hold.
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} domain.Session
// @Failure 404 {object} gin.H "Session not found"
// @Failure 422 {object} gin.H "Session is not retryable"
// @Router /sessions/{id}/regenerate [post]
func (h *SessionHandler) RegenerateSession(c *gin.Context) {
	userID, sessionID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}
	sess, err := h.generationService.RegenerateSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotRetrying) {
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *SessionHandler) idsFromRequest(c *gin.Context) (userID, sessionID primitive.ObjectID, ok bool) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return userID, sessionID, false
	}
	sessionID, err = primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format.")
		return userID, sessionID, false
	}
	return userID, sessionID, true
}

func (h *SessionHandler) mapSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrProgramNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
