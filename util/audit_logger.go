package util

import (
	"encoding/json"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nectorhq/patient-card-service/model"
)

// AuditEventType represents different types of audit events
type AuditEventType string

const (
	EventCardIssued        AuditEventType = "CARD_ISSUED"
	EventPatientUpdated    AuditEventType = "PATIENT_UPDATED"
	EventCardRendered      AuditEventType = "CARD_RENDERED"
	EventRateLimitExceeded AuditEventType = "RATE_LIMIT_EXCEEDED"
	EventEndpointCall      AuditEventType = "ENDPOINT_CALL"
)

// AuditEvent represents an API event to be logged
type AuditEvent struct {
	EventType AuditEventType
	PatientID string
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

var auditDB *gorm.DB

// SetAuditLoggerDB sets a gorm DB instance used to persist audit events.
// Call this during application startup after DB initialization; when unset
// (file and mongo backends) events go to the structured log only.
func SetAuditLoggerDB(db *gorm.DB) {
	auditDB = db
}

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	return value
}

// LogAuditEvent writes the event to the structured log and, when a database
// is configured, persists it to the audit_logs table. Persistence failures
// never fail the request that triggered the event.
func LogAuditEvent(event AuditEvent) {
	log.WithFields(log.Fields{
		"event":      string(event.EventType),
		"patient_id": sanitizeLogValue(event.PatientID),
		"ip":         sanitizeLogValue(event.IP),
	}).Info(sanitizeLogValue(event.Message))

	if auditDB == nil {
		return
	}

	var details datatypes.JSON
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}

	row := model.AuditLog{
		EventType: string(event.EventType),
		PatientID: event.PatientID,
		IP:        event.IP,
		UserAgent: event.UserAgent,
		Message:   sanitizeLogValue(event.Message),
		Details:   details,
	}
	if err := auditDB.Create(&row).Error; err != nil {
		log.WithError(err).Warn("failed to persist audit event")
	}
}

// LogRateLimitExceeded records a throttled request.
func LogRateLimitExceeded(ip, endpoint string) {
	LogAuditEvent(AuditEvent{
		EventType: EventRateLimitExceeded,
		IP:        ip,
		Message:   "rate limit exceeded for " + endpoint,
		Details:   map[string]interface{}{"endpoint": endpoint},
	})
}
