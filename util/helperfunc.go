package util

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type APIErrorParams struct {
	Msg string
	Err error
}

// CallUserError is for return error from user side
func CallUserError(c *gin.Context, params APIErrorParams) {
	c.JSON(http.StatusBadRequest, gin.H{"error": params.Msg})
}

// CallErrorNotFound is for return API response not found
func CallErrorNotFound(c *gin.Context, params APIErrorParams) {
	c.JSON(http.StatusNotFound, gin.H{"error": params.Msg})
}

// CallServerError is for return API response server error. The original error
// is logged, never returned to the client.
func CallServerError(c *gin.Context, params APIErrorParams) {
	log.WithError(params.Err).Error(params.Msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}

// CallPatientOK writes the {message, patient} success body used by the save
// and update endpoints.
func CallPatientOK(c *gin.Context, status int, msg string, patient interface{}) {
	c.JSON(status, gin.H{"message": msg, "patient": patient})
}

// NormalizeName normalizes a name by trimming leading/trailing whitespace
// and collapsing multiple internal spaces into single spaces.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	return strings.Join(strings.Fields(name), " ")
}
