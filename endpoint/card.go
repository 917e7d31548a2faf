package endpoint

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/nectorhq/patient-card-service/card"
	"github.com/nectorhq/patient-card-service/middleware"
	"github.com/nectorhq/patient-card-service/model"
	"github.com/nectorhq/patient-card-service/util"
)

// CardDownloadName is the filename suggested for the PNG artifact.
const CardDownloadName = "nector_patient_card.png"

const qrSize = 120

var (
	defaultRenderer *card.Renderer
	compactRenderer *card.Renderer
)

// InitRenderers builds the card renderers once at startup. templatePath may
// point at a missing file; renders then use the fallback fill.
func InitRenderers(templatePath string) error {
	var err error
	defaultRenderer, err = card.NewRenderer(card.DefaultLayout(), templatePath)
	if err != nil {
		return err
	}
	compactRenderer, err = card.NewRenderer(card.CompactLayout(), templatePath)
	return err
}

// lookupPatient finds one record by patient id, consulting the LRU cache
// before scanning the full record list.
func lookupPatient(c *gin.Context, patientID string) (model.PatientCard, bool, error) {
	if cached, ok := util.PatientCacheGet(patientID); ok {
		return cached, true, nil
	}

	s := middleware.GetStore(c)
	if s == nil {
		return model.PatientCard{}, false, fmt.Errorf("store is nil")
	}

	patients, err := s.ListAll(c.Request.Context())
	if err != nil {
		return model.PatientCard{}, false, err
	}
	for _, p := range patients {
		if p.PatientID == patientID {
			util.PatientCacheSet(p)
			return p, true, nil
		}
	}
	return model.PatientCard{}, false, nil
}

// RenderPatientCard handles GET /patients/:patientId/card: the stored record
// rendered as a downloadable PNG. ?layout=compact selects the reduced layout.
func RenderPatientCard(c *gin.Context) {
	patientID := c.Param("patientId")

	patient, found, err := lookupPatient(c, patientID)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to load patient",
			Err: err,
		})
		return
	}
	if !found {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Patient not found",
			Err: fmt.Errorf("no record for patient %s", patientID),
		})
		return
	}

	renderer := defaultRenderer
	if c.Query("layout") == "compact" {
		renderer = compactRenderer
	}
	if renderer == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Card renderer not available",
			Err: fmt.Errorf("renderer is nil"),
		})
		return
	}

	png, err := card.EncodePNG(renderer.Render(patient))
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to encode card",
			Err: err,
		})
		return
	}

	util.LogAuditEvent(util.AuditEvent{
		EventType: util.EventCardRendered,
		PatientID: patient.PatientID,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   "card rendered: " + patient.CardNo,
	})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", CardDownloadName))
	c.Data(200, "image/png", png)
}

// RenderPatientQR handles GET /patients/:patientId/qr: a QR code encoding the
// patient summary text.
func RenderPatientQR(c *gin.Context) {
	patientID := c.Param("patientId")

	patient, found, err := lookupPatient(c, patientID)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to load patient",
			Err: err,
		})
		return
	}
	if !found {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Patient not found",
			Err: fmt.Errorf("no record for patient %s", patientID),
		})
		return
	}

	png, err := card.QRSummary(patient, qrSize)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to encode QR summary",
			Err: err,
		})
		return
	}

	c.Data(200, "image/png", png)
}
