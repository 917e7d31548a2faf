package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records API events for the audit trail. Only persisted when the
// SQL backend is active; other backends keep the structured log output only.
type AuditLog struct {
	gorm.Model
	EventType string         `gorm:"size:64;index" json:"event_type"`
	PatientID string         `gorm:"size:64;index" json:"patient_id"`
	IP        string         `gorm:"size:64" json:"ip"`
	UserAgent string         `gorm:"size:255" json:"user_agent"`
	Message   string         `gorm:"size:255" json:"message"`
	Details   datatypes.JSON `json:"details"`
}
