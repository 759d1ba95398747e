package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lab-dashboard-server/internal/models"
)

func TestPatientStatusExactMatches(t *testing.T) {
	cases := map[string]models.PatientStatus{
		"Report PDF (Webhook)": models.PatientReportGenerated,
		"registered":           models.PatientRegistered,
		"on hold":              models.PatientOnHold,
		"ON HOLD":              models.PatientOnHold,
		"Sample Collected":     models.PatientSampleCollected,
		"cancelled":            models.PatientCancelled,
	}
	for input, want := range cases {
		assert.Equal(t, want, PatientStatus(input), "input %q", input)
	}
}

func TestPatientStatusKeywordFallback(t *testing.T) {
	assert.Equal(t, models.PatientCancelled, PatientStatus("order was cancelled by centre"))
	assert.Equal(t, models.PatientReportDelivered, PatientStatus("couriered / delivered to patient"))
	assert.Equal(t, models.PatientSampleCollected, PatientStatus("specimen received at lab"))
}

func TestPatientStatusDefaults(t *testing.T) {
	assert.Equal(t, DefaultPatientStatus, PatientStatus("xyz123"))
	assert.Equal(t, DefaultPatientStatus, PatientStatus(""))
	assert.Equal(t, DefaultPatientStatus, PatientStatus(nil))
	assert.Equal(t, DefaultPatientStatus, PatientStatus(float64(7)))
}

func TestReportStatus(t *testing.T) {
	assert.Equal(t, models.ReportGenerated, ReportStatus("Report PDF (Webhook)"))
	assert.Equal(t, models.ReportReviewed, ReportStatus("Approved"))
	assert.Equal(t, models.ReportDelivered, ReportStatus("dispatched to patient"))
	assert.Equal(t, models.ReportPending, ReportStatus("Pending"))
	assert.Equal(t, DefaultReportStatus, ReportStatus("xyz123"))
	assert.Equal(t, DefaultReportStatus, ReportStatus(nil))
}

func TestSpecialty(t *testing.T) {
	cases := map[string]models.Specialty{
		"None (Default)":       models.SpecialtyGeneralPractitioner,
		"Cardiology":           models.SpecialtyCardiologist,
		"heart specialist":     models.SpecialtyCardiologist,
		"Physiotherapy clinic": models.SpecialtyPhysiotherapist,
		"consulting physician": models.SpecialtyPhysician,
		"skin care":            models.SpecialtyDermatologist,
		"xyz123":               models.SpecialtyGeneralPractitioner,
	}
	for input, want := range cases {
		assert.Equal(t, want, Specialty(input), "input %q", input)
	}
	assert.Equal(t, DefaultSpecialty, Specialty(nil))
}
