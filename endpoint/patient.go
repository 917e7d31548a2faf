package endpoint

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/nectorhq/patient-card-service/middleware"
	"github.com/nectorhq/patient-card-service/model"
	"github.com/nectorhq/patient-card-service/store"
	"github.com/nectorhq/patient-card-service/util"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// maxAddressRunes caps stored addresses. Card layouts wrap at 50 or 30
// characters per line, so anything up to this limit still fits on two lines.
const maxAddressRunes = 100

// validatePatch checks every field the request actually provided. Absent
// fields are not validated; the merge preserves their stored values.
func validatePatch(p model.PatientPatch) error {
	if p.PhoneNumber != nil && !phonePattern.MatchString(*p.PhoneNumber) {
		return fmt.Errorf("phone number must be exactly 10 digits")
	}
	if p.Address != nil && utf8.RuneCountInString(*p.Address) > maxAddressRunes {
		return fmt.Errorf("address exceeds %d characters", maxAddressRunes)
	}
	if p.Discount != nil && (*p.Discount < 1 || *p.Discount > 100) {
		return fmt.Errorf("discount must be between 1 and 100")
	}
	return nil
}

// CreatePatient handles POST /patients: create-or-update keyed by patientId.
// Responds 201 with the stored record when a new card was issued, 200 when an
// existing record was merged.
func CreatePatient(c *gin.Context) {
	var req model.PatientPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return
	}

	req.PatientID = strings.TrimSpace(req.PatientID)
	if req.PatientName != nil {
		normalized := util.NormalizeName(*req.PatientName)
		req.PatientName = &normalized
	}

	if req.PatientID == "" ||
		req.PatientName == nil || *req.PatientName == "" ||
		req.PhoneNumber == nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Missing required fields",
			Err: fmt.Errorf("patientId, patientName and phoneNumber are required"),
		})
		return
	}

	if err := validatePatch(req); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: err.Error(),
			Err: err,
		})
		return
	}

	s := middleware.GetStore(c)
	if s == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Patient store not available",
			Err: fmt.Errorf("store is nil"),
		})
		return
	}

	saved, created, err := s.Upsert(c.Request.Context(), req)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to save patient",
			Err: err,
		})
		return
	}

	util.PatientCacheInvalidate(saved.PatientID)

	if created {
		util.LogAuditEvent(util.AuditEvent{
			EventType: util.EventCardIssued,
			PatientID: saved.PatientID,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Message:   "card issued: " + saved.CardNo,
		})
		util.CallPatientOK(c, 201, "Patient saved", saved)
		return
	}

	util.LogAuditEvent(util.AuditEvent{
		EventType: util.EventPatientUpdated,
		PatientID: saved.PatientID,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   "patient merged via upsert",
	})
	util.CallPatientOK(c, 200, "Patient updated", saved)
}

// ListPatients handles GET /patients: the full record set as a plain JSON
// array. Clients filter it locally, so there is no server-side search.
func ListPatients(c *gin.Context) {
	s := middleware.GetStore(c)
	if s == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Patient store not available",
			Err: fmt.Errorf("store is nil"),
		})
		return
	}

	patients, err := s.ListAll(c.Request.Context())
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve patients",
			Err: err,
		})
		return
	}
	if patients == nil {
		patients = []model.PatientCard{}
	}

	c.JSON(200, patients)
}

// UpdatePatient handles PUT /patients/:patientId: partial update of an
// existing record, 404 when the id is unknown.
func UpdatePatient(c *gin.Context) {
	patientID := c.Param("patientId")
	if patientID == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Missing patient ID",
			Err: fmt.Errorf("patient ID is required"),
		})
		return
	}

	var req model.PatientPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return
	}

	if req.PatientName != nil {
		normalized := util.NormalizeName(*req.PatientName)
		if normalized == "" {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "Patient name must not be empty",
				Err: fmt.Errorf("empty patientName"),
			})
			return
		}
		req.PatientName = &normalized
	}

	if err := validatePatch(req); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: err.Error(),
			Err: err,
		})
		return
	}

	s := middleware.GetStore(c)
	if s == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Patient store not available",
			Err: fmt.Errorf("store is nil"),
		})
		return
	}

	updated, err := s.UpdateByID(c.Request.Context(), patientID, req)
	if err == store.ErrNotFound {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Patient not found",
			Err: err,
		})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to update patient",
			Err: err,
		})
		return
	}

	util.PatientCacheInvalidate(updated.PatientID)
	util.LogAuditEvent(util.AuditEvent{
		EventType: util.EventPatientUpdated,
		PatientID: updated.PatientID,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   "patient updated",
	})

	util.CallPatientOK(c, 200, "Patient updated", updated)
}
