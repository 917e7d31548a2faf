package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nectorhq/patient-card-service/store"
)

const storeContextKey = "patientStore"

// CORSMiddleware configures CORS headers for incoming requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		// For preflight requests, respond with 204 and abort further processing.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// StoreMiddleware injects the selected PatientStore into the request context
// so handlers stay backend-agnostic.
func StoreMiddleware(s store.PatientStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(storeContextKey, s)
		c.Next()
	}
}

// GetStore returns the PatientStore injected by StoreMiddleware, or nil.
func GetStore(c *gin.Context) store.PatientStore {
	v, ok := c.Get(storeContextKey)
	if !ok {
		return nil
	}
	s, _ := v.(store.PatientStore)
	return s
}
