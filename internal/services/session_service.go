package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "merlin/internal/errors"
	"merlin/internal/logger"
	"merlin/internal/models"
	"merlin/internal/upstream"
	"merlin/internal/uuid"
)

// Reasons recorded when a session ends.
const (
	EndReasonLogout  = "logout"
	EndReasonExpired = "expired"
	EndReasonRevoked = "revoked"
)

// sessionService owns the login state that used to live on the device.
type sessionService struct {
	db      *gorm.DB
	backend BackendClient
	vault   *TokenVault
	audit   AuditServicer
	now     func() time.Time
}

// NewSessionService creates a new SessionServicer.
func NewSessionService(db *gorm.DB, backend BackendClient, vault *TokenVault, audit AuditServicer) SessionServicer {
	return &sessionService{
		db:      db,
		backend: backend,
		vault:   vault,
		audit:   audit,
		now:     time.Now,
	}
}

// Login authenticates against the backend and opens a session.
func (s *sessionService) Login(ctx context.Context, email, password, ipAddress string) (*models.Session, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	res, err := s.backend.Login(ctx, strings.ToLower(email), password)
	if err != nil {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode < 500 {
			return nil, apperrors.Wrap(apperrors.ErrInvalidCredentials, err)
		}
		return nil, mapUpstreamError(err, apperrors.ErrNotFound)
	}

	session, err := s.open(res)
	if err != nil {
		return nil, err
	}
	s.audit.Log(session.ID, session.UserID, AuditActionLogin, "session", session.ID, ipAddress, nil)
	return session, nil
}

// Register creates a backend account and opens a session for it.
func (s *sessionService) Register(ctx context.Context, input RegisterInput, ipAddress string) (*models.Session, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name, email and password are required")
	}
	if input.Password != input.PasswordConfirmation {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "passwords do not match")
	}

	res, err := s.backend.Register(ctx, input.Name, strings.ToLower(input.Email), input.Password, input.PasswordConfirmation)
	if err != nil {
		return nil, mapUpstreamError(err, apperrors.ErrNotFound)
	}

	session, err := s.open(res)
	if err != nil {
		return nil, err
	}
	s.audit.Log(session.ID, session.UserID, AuditActionRegister, "session", session.ID, ipAddress, nil)
	return session, nil
}

// open stores a session for a fresh backend token. A token that already
// backs an active session reuses it.
func (s *sessionService) open(res *upstream.AuthResult) (*models.Session, error) {
	tokenHash := hashToken(res.Token)

	var existing models.Session
	err := s.db.Where("token_hash = ? AND is_active = ?", tokenHash, true).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	sealed, err := s.vault.Seal(res.Token)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := s.now()
	session := &models.Session{
		UserID:        res.User.ID,
		UserName:      res.User.Name,
		UserEmail:     res.User.Email,
		SealedToken:   sealed,
		TokenHash:     tokenHash,
		ExpiresAt:     res.ExpiresAt,
		IsActive:      true,
		LastCheckedAt: &now,
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return session, nil
}

// Authenticate resolves an active session into a Principal.
func (s *sessionService) Authenticate(sessionID, ipAddress string) (*Principal, error) {
	session, err := s.activeSession(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Expired(s.now()) {
		s.end(session, EndReasonExpired)
		return nil, apperrors.ErrSessionExpired
	}

	token, err := s.vault.Open(session.SealedToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, err)
	}

	return &Principal{
		SessionID:     session.ID,
		User:          session.User(),
		UpstreamToken: token,
		IPAddress:     ipAddress,
	}, nil
}

// Logout revokes the backend token and ends the session. The backend call
// is best effort; the session ends regardless.
func (s *sessionService) Logout(ctx context.Context, principal *Principal) error {
	session, err := s.activeSession(principal.SessionID)
	if err != nil {
		return err
	}

	if err := s.backend.Logout(ctx, principal.UpstreamToken); err != nil {
		logger.Get().Warnw("backend logout failed",
			"error", err,
			"session_id", session.ID,
			"user_id", session.UserID,
		)
	}

	if err := s.deactivate(session, EndReasonLogout); err != nil {
		return err
	}
	s.audit.Log(session.ID, session.UserID, AuditActionLogout, "session", session.ID, principal.IPAddress, nil)
	return nil
}

// Status reports whether sessionID names a live session. An unknown or
// ended session is simply not logged in.
func (s *sessionService) Status(sessionID string) (*SessionStatus, error) {
	if sessionID == "" {
		return &SessionStatus{}, nil
	}

	session, err := s.activeSession(sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return &SessionStatus{}, nil
		}
		return nil, err
	}
	if session.Expired(s.now()) {
		s.end(session, EndReasonExpired)
		return &SessionStatus{}, nil
	}

	user := session.User()
	return &SessionStatus{IsLoggedIn: true, User: &user}, nil
}

// Refresh re-checks every active session against the backend. Sessions whose
// token has expired or been revoked are ended; transport failures leave the
// session alone until the next pass.
func (s *sessionService) Refresh(ctx context.Context) (*RefreshResult, error) {
	var sessions []models.Session
	if err := s.db.Where("is_active = ?", true).Order("created_at").Find(&sessions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := &RefreshResult{}
	for i := range sessions {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		session := &sessions[i]
		result.Checked++

		if session.Expired(s.now()) {
			s.end(session, EndReasonExpired)
			result.Expired++
			continue
		}

		token, err := s.vault.Open(session.SealedToken)
		if err != nil {
			s.end(session, EndReasonRevoked)
			result.Expired++
			continue
		}

		user, err := s.backend.CurrentUser(ctx, token)
		if err != nil {
			if isUnauthorized(err) {
				s.end(session, EndReasonRevoked)
				result.Expired++
				continue
			}
			logger.Get().Warnw("session refresh failed",
				"error", err,
				"session_id", session.ID,
			)
			result.Failed++
			continue
		}

		now := s.now()
		updates := map[string]any{
			"user_name":       user.Name,
			"user_email":      user.Email,
			"last_checked_at": &now,
		}
		if err := s.db.Model(session).Updates(updates).Error; err != nil {
			logger.Get().Errorw("failed to update session", "error", err, "session_id", session.ID)
			result.Failed++
			continue
		}
		result.Updated++
	}
	return result, nil
}

func (s *sessionService) activeSession(sessionID string) (*models.Session, error) {
	// postgres rejects malformed ids in a uuid column with a query error
	if !uuid.IsValid(sessionID) {
		return nil, apperrors.ErrUnauthorized
	}

	var session models.Session
	if err := s.db.Where("id = ? AND is_active = ?", sessionID, true).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &session, nil
}

// end deactivates a session that ran out on its own and records it.
func (s *sessionService) end(session *models.Session, reason string) {
	if err := s.deactivate(session, reason); err != nil {
		logger.Get().Errorw("failed to end session", "error", err, "session_id", session.ID, "reason", reason)
		return
	}
	s.audit.Log(session.ID, session.UserID, AuditActionSessionExpired, "session", session.ID, "", map[string]any{"reason": reason})
}

func (s *sessionService) deactivate(session *models.Session, reason string) error {
	now := s.now()
	updates := map[string]any{
		"is_active":  false,
		"ended_at":   &now,
		"end_reason": reason,
	}
	if err := s.db.Model(session).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
