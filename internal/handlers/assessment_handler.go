package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"merlin/internal/aggregate"
	apperrors "merlin/internal/errors"
	"merlin/internal/models"
	"merlin/internal/pagination"
	"merlin/internal/services"
)

// AssessmentHandler handles the dashboard and assessment detail screens
type AssessmentHandler struct {
	assessmentService services.AssessmentServicer
	currencySymbol    string
}

// NewAssessmentHandler creates a new AssessmentHandler
func NewAssessmentHandler(assessmentService services.AssessmentServicer, currencySymbol string) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService, currencySymbol: currencySymbol}
}

// CreateAssessmentRequest represents the create assessment payload. Either
// name or month and year must be given.
type CreateAssessmentRequest struct {
	Name  string `json:"name" binding:"omitempty,max=255"`
	Month string `json:"month" binding:"required_without=Name,omitempty,month_name"`
	Year  int    `json:"year" binding:"required_without=Name,omitempty,min=1900,max=9999"`
}

// AssessmentDetailsResponse is the assessment detail screen
type AssessmentDetailsResponse struct {
	Assessment   models.Assessment     `json:"assessment"`
	Summary      aggregate.SummaryView `json:"summary"`
	IncomeChart  aggregate.ChartView   `json:"income_chart"`
	ExpenseChart aggregate.ChartView   `json:"expense_chart"`
	Entries      []aggregate.EntryRow  `json:"entries"`
}

// ListAssessments lists the caller's assessments
// @Summary     List assessments
// @Description Get a page of the caller's financial assessments
// @Tags        assessments
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Assessment]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Finance backend unavailable"
// @Router      /assessments [get]
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
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

	resp, err := h.assessmentService.ListAssessments(c.Request.Context(), principal, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateAssessment creates an assessment
// @Summary     Create assessment
// @Description Create an assessment named explicitly or as "<Month> <Year>"
// @Tags        assessments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAssessmentRequest true "Assessment"
// @Success     201 {object} map[string]models.Assessment
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /assessments [post]
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	principal, err := getPrincipal(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	assessment, err := h.assessmentService.CreateAssessment(c.Request.Context(), principal, services.CreateAssessmentInput{
		Name:  req.Name,
		Month: req.Month,
		Year:  req.Year,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assessment": assessment})
}

// DeleteAssessment deletes an assessment
// @Summary     Delete assessment
// @Tags        assessments
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Assessment ID"
// @Success     200 {object} map[string]string
// @Failure     404 {object} ErrorResponse "Assessment not found"
// @Router      /assessments/{id} [delete]
func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
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

	if err := h.assessmentService.DeleteAssessment(c.Request.Context(), principal, id); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assessment deleted"})
}

// GetAssessmentDetails returns the assessment detail screen
// @Summary     Assessment details
// @Description Totals, income and expense charts and the entry list for one assessment
// @Tags        assessments
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Assessment ID"
// @Success     200 {object} AssessmentDetailsResponse
// @Failure     404 {object} ErrorResponse "Assessment not found"
// @Failure     502 {object} ErrorResponse "Finance backend unavailable"
// @Router      /assessments/{id}/details [get]
func (h *AssessmentHandler) GetAssessmentDetails(c *gin.Context) {
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

	details, err := h.assessmentService.GetAssessmentDetails(c.Request.Context(), principal, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, AssessmentDetailsResponse{
		Assessment:   details.Assessment,
		Summary:      aggregate.NewSummaryView(details.Result, h.currencySymbol),
		IncomeChart:  aggregate.NewChartView("Income", details.IncomeSeries, h.currencySymbol),
		ExpenseChart: aggregate.NewChartView("Expenses", details.ExpenseSeries, h.currencySymbol),
		Entries:      aggregate.NewEntryRows(details.Entries, h.currencySymbol),
	})
}
