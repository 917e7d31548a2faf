package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nectorhq/patient-card-service/util"
)

// EndpointCallLogger logs each HTTP request as an audit event. When the audit
// logger has a database configured the event is also persisted.
func EndpointCallLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		details := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"raw_path":    c.Request.URL.Path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"query":       c.Request.URL.RawQuery,
		}
		if id := c.Param("patientId"); id != "" {
			details["patient_id"] = id
		}

		util.LogAuditEvent(util.AuditEvent{
			EventType: util.EventEndpointCall,
			PatientID: c.Param("patientId"),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
			Details:   details,
		})
	}
}
