package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"merlin/internal/aggregate"
	apperrors "merlin/internal/errors"
	"merlin/internal/models"
	"merlin/internal/services"
)

// EntryHandler handles the transaction list and add-entry form
type EntryHandler struct {
	entryService   services.EntryServicer
	currencySymbol string
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService services.EntryServicer, currencySymbol string) *EntryHandler {
	return &EntryHandler{entryService: entryService, currencySymbol: currencySymbol}
}

// CreateEntryRequest represents the add-entry form. Amount is the magnitude;
// type decides whether it is income or expense.
type CreateEntryRequest struct {
	Name     string           `json:"name" binding:"required,max=255"`
	Category string           `json:"category" binding:"max=100"`
	Amount   *decimal.Decimal `json:"amount" binding:"required" swaggertype:"number"`
	Type     string           `json:"type" binding:"required,entry_kind"`
	Date     string           `json:"date" binding:"omitempty,iso_date"`
}

// EntryListResponse is the transaction list with its totals table
type EntryListResponse struct {
	AssessmentID int                   `json:"assessment_id"`
	Entries      []aggregate.EntryRow  `json:"entries"`
	Summary      aggregate.SummaryView `json:"summary"`
}

func (h *EntryHandler) listResponse(list *services.EntryList) EntryListResponse {
	return EntryListResponse{
		AssessmentID: list.AssessmentID,
		Entries:      aggregate.NewEntryRows(list.Entries, h.currencySymbol),
		Summary:      aggregate.NewSummaryView(list.Result, h.currencySymbol),
	}
}

// ListEntries lists an assessment's entries with totals
// @Summary     List entries
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Assessment ID"
// @Success     200 {object} EntryListResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Finance backend unavailable"
// @Router      /assessments/{id}/entries [get]
func (h *EntryHandler) ListEntries(c *gin.Context) {
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

	list, err := h.entryService.ListEntries(c.Request.Context(), principal, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.listResponse(list))
}

// CreateEntry adds an entry to an assessment
// @Summary     Create entry
// @Description Add an income (+) or expense (-) entry and return the reloaded list
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Assessment ID"
// @Param       request body CreateEntryRequest true "Entry"
// @Success     201 {object} EntryListResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "Rejected by the finance backend"
// @Router      /assessments/{id}/entries [post]
func (h *EntryHandler) CreateEntry(c *gin.Context) {
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

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	list, err := h.entryService.CreateEntry(c.Request.Context(), principal, services.CreateEntryInput{
		AssessmentID: id,
		Name:         req.Name,
		Category:     req.Category,
		Amount:       *req.Amount,
		Kind:         models.EntryKind(req.Type),
		Date:         req.Date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.listResponse(list))
}

// DeleteEntry removes an entry
// @Summary     Delete entry
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Entry ID"
// @Success     200 {object} map[string]string
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Router      /entries/{id} [delete]
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
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

	if err := h.entryService.DeleteEntry(c.Request.Context(), principal, id); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}
