package models

// AuditLog records session and entry operations performed through the gateway.
type AuditLog struct {
	Base
	SessionID    string `gorm:"type:uuid;index" json:"session_id"`
	UserID       int    `gorm:"not null;index" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
