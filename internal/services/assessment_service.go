package services

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"merlin/internal/aggregate"
	apperrors "merlin/internal/errors"
	"merlin/internal/models"
	"merlin/internal/pagination"
)

// assessmentService serves the dashboard and assessment detail screens.
type assessmentService struct {
	backend BackendClient
	audit   AuditServicer
}

// NewAssessmentService creates a new AssessmentServicer.
func NewAssessmentService(backend BackendClient, audit AuditServicer) AssessmentServicer {
	return &assessmentService{backend: backend, audit: audit}
}

// ListAssessments returns one page of the caller's assessments. The backend
// returns the whole list, so paging happens here.
func (s *assessmentService) ListAssessments(ctx context.Context, principal *Principal, page pagination.PageRequest) (*pagination.PageResponse[models.Assessment], error) {
	assessments, err := s.backend.ListAssessments(ctx, principal.UpstreamToken)
	if err != nil {
		return nil, mapUpstreamError(err, apperrors.ErrNotFound)
	}
	resp := pagination.Slice(assessments, page)
	return &resp, nil
}

// CreateAssessment creates an assessment named either explicitly or
// "<Month> <Year>", then reads it back.
func (s *assessmentService) CreateAssessment(ctx context.Context, principal *Principal, input CreateAssessmentInput) (*models.Assessment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		if input.Month == "" || input.Year == 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name or month and year are required")
		}
		name = input.Month + " " + strconv.Itoa(input.Year)
	}

	if err := s.backend.CreateAssessment(ctx, principal.UpstreamToken, name); err != nil {
		return nil, mapUpstreamError(err, apperrors.ErrNotFound)
	}

	created := &models.Assessment{Name: name}
	assessments, err := s.backend.ListAssessments(ctx, principal.UpstreamToken)
	if err != nil {
		return nil, mapUpstreamError(err, apperrors.ErrNotFound)
	}
	for _, a := range assessments {
		if a.Name == name && a.ID > created.ID {
			created.ID = a.ID
		}
	}

	s.audit.Log(principal.SessionID, principal.User.ID, AuditActionCreateAssessment, "assessment",
		strconv.Itoa(created.ID), principal.IPAddress, map[string]any{"name": name})
	return created, nil
}

// DeleteAssessment deletes an assessment along with its entries.
func (s *assessmentService) DeleteAssessment(ctx context.Context, principal *Principal, assessmentID int) error {
	if err := s.backend.DeleteAssessment(ctx, principal.UpstreamToken, assessmentID); err != nil {
		return mapUpstreamError(err, apperrors.ErrAssessmentNotFound)
	}
	s.audit.Log(principal.SessionID, principal.User.ID, AuditActionDeleteAssessment, "assessment",
		strconv.Itoa(assessmentID), principal.IPAddress, nil)
	return nil
}

// GetAssessmentDetails fetches the assessment's name and entries
// concurrently and aggregates the entries for the detail screen.
func (s *assessmentService) GetAssessmentDetails(ctx context.Context, principal *Principal, assessmentID int) (*AssessmentDetails, error) {
	var (
		assessments []models.Assessment
		entries     []models.Entry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assessments, err = s.backend.ListAssessments(gctx, principal.UpstreamToken)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.backend.ListEntries(gctx, principal.UpstreamToken, assessmentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapUpstreamError(err, apperrors.ErrAssessmentNotFound)
	}

	assessment, ok := findAssessment(assessments, assessmentID)
	if !ok {
		return nil, apperrors.ErrAssessmentNotFound
	}

	result := aggregate.Aggregate(entries)
	return &AssessmentDetails{
		Assessment:    assessment,
		Entries:       entries,
		Result:        result,
		IncomeSeries:  aggregate.ToChartSeries(result.IncomeByCategory),
		ExpenseSeries: aggregate.ToChartSeries(result.ExpenseByCategory),
	}, nil
}

func findAssessment(assessments []models.Assessment, id int) (models.Assessment, bool) {
	for _, a := range assessments {
		if a.ID == id {
			return a, true
		}
	}
	return models.Assessment{}, false
}
