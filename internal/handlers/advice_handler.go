package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "merlin/internal/errors"
	"merlin/internal/services"
)

// AdviceHandler handles generated advice requests
type AdviceHandler struct {
	adviceService services.AdviceServicer
}

// NewAdviceHandler creates a new AdviceHandler
func NewAdviceHandler(adviceService services.AdviceServicer) *AdviceHandler {
	return &AdviceHandler{adviceService: adviceService}
}

// SelectedAdviceRequest lists the assessments to advise on together
type SelectedAdviceRequest struct {
	AssessmentIDs []int `json:"selected_ids" binding:"required,min=1,dive,gt=0"`
}

// GetAdvice returns stored advice for an assessment
// @Summary     Get advice
// @Description found is false when no advice has been generated yet
// @Tags        advice
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Assessment ID"
// @Success     200 {object} services.Advice
// @Failure     404 {object} ErrorResponse "Assessment not found"
// @Router      /assessments/{id}/advice [get]
func (h *AdviceHandler) GetAdvice(c *gin.Context) {
	principal, err := getPrincipal(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	advice, err := h.adviceService.GetAdvice(c.Request.Context(), principal, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, advice)
}

// GenerateAdvice generates advice for an assessment
// @Summary     Generate advice
// @Tags        advice
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Assessment ID"
// @Success     201 {object} services.Advice
// @Failure     502 {object} ErrorResponse "Finance backend unavailable"
// @Router      /assessments/{id}/advice [post]
func (h *AdviceHandler) GenerateAdvice(c *gin.Context) {
	principal, err := getPrincipal(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	advice, err := h.adviceService.GenerateAdvice(c.Request.Context(), principal, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, advice)
}

// SelectedAdvice returns combined advice for several assessments
// @Summary     Advice for selected assessments
// @Tags        advice
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SelectedAdviceRequest true "Selected assessments"
// @Success     200 {object} map[string]string
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /advice/selected [post]
func (h *AdviceHandler) SelectedAdvice(c *gin.Context) {
	principal, err := getPrincipal(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SelectedAdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	text, err := h.adviceService.SelectedAdvice(c.Request.Context(), principal, req.AssessmentIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"advice": text})
}
