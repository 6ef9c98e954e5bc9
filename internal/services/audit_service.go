package services

import (
	"encoding/json"

	"gorm.io/gorm"

	apperrors "merlin/internal/errors"
	"merlin/internal/logger"
	"merlin/internal/models"
	"merlin/internal/pagination"
)

// Audit actions.
const (
	AuditActionLogin            = "login"
	AuditActionRegister         = "register"
	AuditActionLogout           = "logout"
	AuditActionSessionExpired   = "session_expired"
	AuditActionCreateAssessment = "create_assessment"
	AuditActionDeleteAssessment = "delete_assessment"
	AuditActionCreateEntry      = "create_entry"
	AuditActionDeleteEntry      = "delete_entry"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(sessionID string, userID int, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		SessionID:    sessionID,
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// ListForUser returns a user's audit trail, newest first.
func (s *auditService) ListForUser(userID int, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.AuditLog{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var logs []models.AuditLog
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&logs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(logs, page.Page, page.PageSize, total)
	return &resp, nil
}
