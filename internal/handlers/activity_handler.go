package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "merlin/internal/errors"
	"merlin/internal/pagination"
	"merlin/internal/services"
)

// ActivityHandler exposes the audit trail and session maintenance
type ActivityHandler struct {
	auditService   services.AuditServicer
	sessionService services.SessionServicer
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(auditService services.AuditServicer, sessionService services.SessionServicer) *ActivityHandler {
	return &ActivityHandler{auditService: auditService, sessionService: sessionService}
}

// ListActivity lists the caller's audit trail
// @Summary     List activity
// @Description Logins, logouts and changes made through the gateway, newest first
// @Tags        activity
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.AuditLog]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /activity [get]
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	principal, err := getPrincipal(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	resp, err := h.auditService.ListForUser(principal.User.ID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshSessions runs a session re-check pass immediately
// @Summary     Refresh sessions
// @Description Re-check every active session against the finance backend
// @Tags        admin
// @Produce     json
// @Param       X-API-Key header string true "Admin API key"
// @Success     200 {object} services.RefreshResult
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Router      /admin/sessions/refresh [post]
func (h *ActivityHandler) RefreshSessions(c *gin.Context) {
	result, err := h.sessionService.Refresh(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
