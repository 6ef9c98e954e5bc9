package services

import (
	"context"

	apperrors "merlin/internal/errors"
)

// adviceService serves generated advice for assessments.
type adviceService struct {
	backend BackendClient
}

// NewAdviceService creates a new AdviceServicer.
func NewAdviceService(backend BackendClient) AdviceServicer {
	return &adviceService{backend: backend}
}

// GetAdvice returns stored advice for an assessment. The backend looks
// advice up by assessment name, so the name is resolved first.
func (s *adviceService) GetAdvice(ctx context.Context, principal *Principal, assessmentID int) (*Advice, error) {
	assessments, err := s.backend.ListAssessments(ctx, principal.UpstreamToken)
	if err != nil {
		return nil, mapUpstreamError(err, apperrors.ErrNotFound)
	}
	assessment, ok := findAssessment(assessments, assessmentID)
	if !ok {
		return nil, apperrors.ErrAssessmentNotFound
	}

	text, found, err := s.backend.GetAdvice(ctx, principal.UpstreamToken, assessment.Name)
	if err != nil {
		return nil, mapUpstreamError(err, apperrors.ErrAssessmentNotFound)
	}
	return &Advice{AssessmentID: assessmentID, Text: text, Found: found}, nil
}

// GenerateAdvice asks the backend to produce advice for an assessment.
func (s *adviceService) GenerateAdvice(ctx context.Context, principal *Principal, assessmentID int) (*Advice, error) {
	text, err := s.backend.GenerateAdvice(ctx, principal.UpstreamToken, assessmentID)
	if err != nil {
		return nil, mapUpstreamError(err, apperrors.ErrAssessmentNotFound)
	}
	return &Advice{AssessmentID: assessmentID, Text: text, Found: text != ""}, nil
}

// SelectedAdvice returns combined advice for several assessments. Duplicate
// ids are sent once.
func (s *adviceService) SelectedAdvice(ctx context.Context, principal *Principal, assessmentIDs []int) (string, error) {
	ids := make([]int, 0, len(assessmentIDs))
	seen := make(map[int]struct{}, len(assessmentIDs))
	for _, id := range assessmentIDs {
		if id <= 0 {
			return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "assessment ids must be positive")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "select at least one assessment")
	}

	text, err := s.backend.SelectedAdvice(ctx, principal.UpstreamToken, ids)
	if err != nil {
		return "", mapUpstreamError(err, apperrors.ErrAssessmentNotFound)
	}
	return text, nil
}
