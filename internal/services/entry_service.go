package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"merlin/internal/aggregate"
	apperrors "merlin/internal/errors"
	"merlin/internal/models"
	"merlin/internal/upstream"
)

// entryService serves the entry list and the add-entry form.
type entryService struct {
	backend BackendClient
	audit   AuditServicer
	now     func() time.Time
}

// NewEntryService creates a new EntryServicer.
func NewEntryService(backend BackendClient, audit AuditServicer) EntryServicer {
	return &entryService{backend: backend, audit: audit, now: time.Now}
}

// ListEntries returns an assessment's entries with their totals.
func (s *entryService) ListEntries(ctx context.Context, principal *Principal, assessmentID int) (*EntryList, error) {
	entries, err := s.backend.ListEntries(ctx, principal.UpstreamToken, assessmentID)
	if err != nil {
		return nil, mapUpstreamError(err, apperrors.ErrAssessmentNotFound)
	}
	return &EntryList{
		AssessmentID: assessmentID,
		Entries:      entries,
		Result:       aggregate.Aggregate(entries),
	}, nil
}

// CreateEntry stores a new entry and returns the reloaded list. The amount
// is sent signed: expenses negative, income positive.
func (s *entryService) CreateEntry(ctx context.Context, principal *Principal, input CreateEntryInput) (*EntryList, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if input.Amount.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be zero")
	}

	amount := input.Amount.Abs()
	switch input.Kind {
	case models.EntryKindExpense:
		amount = amount.Neg()
	case models.EntryKindIncome:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be + or -")
	}

	date := input.Date
	if date == "" {
		date = s.now().Format(time.DateOnly)
	}

	entry := upstream.NewEntry{
		AssessmentID: input.AssessmentID,
		Name:         name,
		Category:     input.Category,
		Amount:       amount,
		Kind:         input.Kind,
		Date:         date,
	}
	if err := s.backend.CreateEntry(ctx, principal.UpstreamToken, entry); err != nil {
		return nil, mapUpstreamError(err, apperrors.ErrAssessmentNotFound)
	}

	s.audit.Log(principal.SessionID, principal.User.ID, AuditActionCreateEntry, "assessment",
		strconv.Itoa(input.AssessmentID), principal.IPAddress, map[string]any{
			"name":     name,
			"category": input.Category,
			"amount":   amount.String(),
			"date":     date,
		})

	return s.ListEntries(ctx, principal, input.AssessmentID)
}

// DeleteEntry removes one entry.
func (s *entryService) DeleteEntry(ctx context.Context, principal *Principal, entryID int) error {
	if err := s.backend.DeleteEntry(ctx, principal.UpstreamToken, entryID); err != nil {
		return mapUpstreamError(err, apperrors.ErrEntryNotFound)
	}
	s.audit.Log(principal.SessionID, principal.User.ID, AuditActionDeleteEntry, "entry",
		strconv.Itoa(entryID), principal.IPAddress, nil)
	return nil
}
