package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"lab-dashboard-server/internal/consolidate"
	"lab-dashboard-server/internal/extract"
	"lab-dashboard-server/internal/metrics"
	"lab-dashboard-server/internal/models"
	"lab-dashboard-server/internal/store"
	"lab-dashboard-server/internal/utils"
)

// WebhookHandler receives the four webhook kinds from the upstream lab
// system. Each endpoint appends the raw payload to its event log, performs
// its direct writes synchronously, and dispatches consolidation as a
// background task the response never waits on.
type WebhookHandler struct {
	Store        store.Store
	Consolidator *consolidate.Consolidator
	Logger       zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(s store.Store, c *consolidate.Consolidator, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{Store: s, Consolidator: c, Logger: logger}
}

func (h *WebhookHandler) bindPayload(c *gin.Context, kind models.EventKind) (extract.Payload, bool) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		metrics.WebhookEvents.WithLabelValues(string(kind), "rejected").Inc()
		utils.BadRequest(c, "Invalid JSON payload: "+err.Error())
		return nil, false
	}
	return payload, true
}

// PatientRegistration handles the patient-registration event: raw log plus
// synchronous patient create/merge.
func (h *WebhookHandler) PatientRegistration(c *gin.Context) {
	payload, ok := h.bindPayload(c, models.EventPatientRegistration)
	if !ok {
		return
	}

	if err := h.Store.AppendRequestDump(c.Request.Context(), models.EventPatientRegistration, payload); err != nil {
		metrics.WebhookEvents.WithLabelValues(string(models.EventPatientRegistration), "failed").Inc()
		utils.InternalServerError(c, "Failed to record webhook: "+err.Error())
		return
	}

	frag := extract.Extract(payload)
	patient, err := h.Consolidator.ConsolidatePatient(c.Request.Context(), frag)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(string(models.EventPatientRegistration), "failed").Inc()
		utils.InternalServerError(c, "Failed to create patient: "+err.Error())
		return
	}

	h.Consolidator.Dispatch(models.EventPatientRegistration, payload)
	metrics.WebhookEvents.WithLabelValues(string(models.EventPatientRegistration), "ok").Inc()
	utils.Created(c, "Patient registration processed", gin.H{"patientId": patient.PatientID})
}

// BillGeneration handles the bill-generation event, which carries most
// demographic and billing fields.
func (h *WebhookHandler) BillGeneration(c *gin.Context) {
	payload, ok := h.bindPayload(c, models.EventBillGeneration)
	if !ok {
		return
	}

	if err := h.Store.AppendRequestDump(c.Request.Context(), models.EventBillGeneration, payload); err != nil {
		metrics.WebhookEvents.WithLabelValues(string(models.EventBillGeneration), "failed").Inc()
		utils.InternalServerError(c, "Failed to record webhook: "+err.Error())
		return
	}

	frag := extract.Extract(payload)
	patient, err := h.Consolidator.ConsolidatePatient(c.Request.Context(), frag)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(string(models.EventBillGeneration), "failed").Inc()
		utils.InternalServerError(c, "Failed to upsert patient: "+err.Error())
		return
	}

	h.Consolidator.Dispatch(models.EventBillGeneration, payload)
	metrics.WebhookEvents.WithLabelValues(string(models.EventBillGeneration), "ok").Inc()
	utils.Created(c, "Bill generation processed", gin.H{"patientId": patient.PatientID})
}

// ReportStatus handles the report-status event: report upsert (and the
// one-time decode of an attached base64 report) happens synchronously;
// patient-side consolidation and the delivery alert run in the
// background.
func (h *WebhookHandler) ReportStatus(c *gin.Context) {
	payload, ok := h.bindPayload(c, models.EventReportStatus)
	if !ok {
		return
	}

	frag := extract.Extract(payload)
	if frag.ReportID == "" && (firstOf(frag.BillID, frag.BillIDNumber) == "" || len(frag.TestIDs) == 0) {
		metrics.WebhookEvents.WithLabelValues(string(models.EventReportStatus), "rejected").Inc()
		utils.BadRequest(c, "Report webhook requires reportId or billId with testID")
		return
	}

	if err := h.Store.AppendReportStatus(c.Request.Context(), payload); err != nil {
		metrics.WebhookEvents.WithLabelValues(string(models.EventReportStatus), "failed").Inc()
		utils.InternalServerError(c, "Failed to record webhook: "+err.Error())
		return
	}

	reports, err := h.Consolidator.ProcessReportEvent(c.Request.Context(), frag)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(string(models.EventReportStatus), "failed").Inc()
		utils.InternalServerError(c, "Failed to upsert report: "+err.Error())
		return
	}

	h.Consolidator.Dispatch(models.EventReportStatus, payload)
	metrics.WebhookEvents.WithLabelValues(string(models.EventReportStatus), "ok").Inc()

	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ID)
	}
	utils.Created(c, "Report status processed", gin.H{"reportIds": ids})
}

// SampleStatus handles the sample-status event: raw log only on the
// synchronous path, consolidation in the background.
func (h *WebhookHandler) SampleStatus(c *gin.Context) {
	payload, ok := h.bindPayload(c, models.EventSampleStatus)
	if !ok {
		return
	}

	if err := h.Store.AppendSampleStatus(c.Request.Context(), payload); err != nil {
		metrics.WebhookEvents.WithLabelValues(string(models.EventSampleStatus), "failed").Inc()
		utils.InternalServerError(c, "Failed to record webhook: "+err.Error())
		return
	}

	h.Consolidator.Dispatch(models.EventSampleStatus, payload)
	metrics.WebhookEvents.WithLabelValues(string(models.EventSampleStatus), "ok").Inc()
	utils.Success(c, "Sample status recorded", nil)
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
