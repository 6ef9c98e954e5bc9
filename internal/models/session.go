package models

import "time"

// Session is a logged-in device. The backend token is stored sealed and is
// only opened to make backend calls on the session's behalf.
type Session struct {
	Base
	UserID        int        `gorm:"not null;index" json:"user_id"`
	UserName      string     `json:"user_name"`
	UserEmail     string     `gorm:"not null" json:"user_email"`
	SealedToken   []byte     `gorm:"not null" json:"-"`
	TokenHash     string     `gorm:"size:64;index" json:"-"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	IsActive      bool       `gorm:"default:true;index" json:"is_active"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	EndReason     string     `json:"end_reason,omitempty"`
}

// User returns the backend user the session belongs to.
func (s *Session) User() User {
	return User{ID: s.UserID, Name: s.UserName, Email: s.UserEmail}
}

// Expired reports whether the backend token is known to have expired at now.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}
