package endpoint

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/nectorhq/patient-card-service/middleware"
	"github.com/nectorhq/patient-card-service/store"
	"github.com/nectorhq/patient-card-service/util"
)

// setupEndpointTest returns a Gin engine backed by a file store in a temp
// directory, with all patient routes registered.
func setupEndpointTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.NewFileStore(filepath.Join(t.TempDir(), "patients.json"))
	assert.NoError(t, err)

	util.InitPatientCache(16)
	assert.NoError(t, InitRenderers(""))

	r := gin.New()
	r.Use(middleware.StoreMiddleware(s))
	r.GET("/patients", ListPatients)
	r.POST("/patients", CreatePatient)
	r.PUT("/patients/:patientId", UpdatePatient)
	r.GET("/patients/:patientId/card", RenderPatientCard)
	r.GET("/patients/:patientId/qr", RenderPatientQR)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func validPatient(patientID string) map[string]interface{} {
	return map[string]interface{}{
		"patientId":   patientID,
		"patientName": "Jane Doe",
		"phoneNumber": "1234567890",
		"address":     "14/2 Green Park Colony Near City Mall Sector 21",
		"discount":    10,
	}
}
