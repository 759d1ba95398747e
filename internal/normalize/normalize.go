// Package normalize maps freeform status and specialty strings from the
// upstream lab system onto the closed enums the dashboard workflow uses.
// Each mapping runs a lowercase exact-phrase lookup first, then a keyword
// substring scan in fixed priority order, and falls back to a default.
// Unrecognized phrasings therefore degrade to the default rather than
// failing the record.
package normalize

import (
	"strings"

	"lab-dashboard-server/internal/models"
)

// Defaults returned when the input is absent, not a string, or matches
// nothing.
const (
	DefaultPatientStatus = models.PatientReportGenerated
	DefaultReportStatus  = models.ReportGenerated
	DefaultSpecialty     = models.SpecialtyGeneralPractitioner
)

var patientStatusExact = map[string]models.PatientStatus{
	"registered":           models.PatientRegistered,
	"patient registered":   models.PatientRegistered,
	"new registration":     models.PatientRegistered,
	"registration":         models.PatientRegistered,
	"lab test scheduled":   models.PatientLabTestScheduled,
	"test scheduled":       models.PatientLabTestScheduled,
	"scheduled":            models.PatientLabTestScheduled,
	"sample collected":     models.PatientSampleCollected,
	"specimen collected":   models.PatientSampleCollected,
	"collected":            models.PatientSampleCollected,
	"accessioned":          models.PatientSampleCollected,
	"under review":         models.PatientUnderReview,
	"in review":            models.PatientUnderReview,
	"under analysis":       models.PatientUnderReview,
	"processing":           models.PatientUnderReview,
	"report generated":     models.PatientReportGenerated,
	"report pdf (webhook)": models.PatientReportGenerated,
	"report ready":         models.PatientReportGenerated,
	"generated":            models.PatientReportGenerated,
	"report delivered":     models.PatientReportDelivered,
	"delivered":            models.PatientReportDelivered,
	"report sent":          models.PatientReportDelivered,
	"completed":            models.PatientCompleted,
	"complete":             models.PatientCompleted,
	"done":                 models.PatientCompleted,
	"closed":               models.PatientCompleted,
	"on hold":              models.PatientOnHold,
	"hold":                 models.PatientOnHold,
	"paused":               models.PatientOnHold,
	"cancelled":            models.PatientCancelled,
	"canceled":             models.PatientCancelled,
	"rejected":             models.PatientCancelled,
}

// Keyword fallbacks are scanned in order; terminal states go first so a
// phrase like "report delivery cancelled" lands on Cancelled, not
// Report Delivered.
var patientStatusKeywords = []struct {
	keywords []string
	status   models.PatientStatus
}{
	{[]string{"cancel", "reject"}, models.PatientCancelled},
	{[]string{"hold", "pause"}, models.PatientOnHold},
	{[]string{"deliver", "dispatch"}, models.PatientReportDelivered},
	{[]string{"complet", "done", "closed"}, models.PatientCompleted},
	{[]string{"generat", "pdf", "ready"}, models.PatientReportGenerated},
	{[]string{"review", "analys", "process"}, models.PatientUnderReview},
	{[]string{"collect", "sample", "specimen", "accession"}, models.PatientSampleCollected},
	{[]string{"schedul"}, models.PatientLabTestScheduled},
	{[]string{"regist"}, models.PatientRegistered},
}

// PatientStatus maps a raw upstream status onto the patient workflow enum.
func PatientStatus(raw interface{}) models.PatientStatus {
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return DefaultPatientStatus
	}
	lowered := strings.ToLower(strings.TrimSpace(s))
	if status, found := patientStatusExact[lowered]; found {
		return status
	}
	for _, entry := range patientStatusKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				return entry.status
			}
		}
	}
	return DefaultPatientStatus
}

var reportStatusExact = map[string]models.ReportStatus{
	"pending":              models.ReportPending,
	"ordered":              models.ReportPending,
	"requested":            models.ReportPending,
	"sample collected":     models.ReportSampleCollected,
	"specimen collected":   models.ReportSampleCollected,
	"collected":            models.ReportSampleCollected,
	"accessioned":          models.ReportSampleCollected,
	"under analysis":       models.ReportUnderAnalysis,
	"under review":         models.ReportUnderAnalysis,
	"in progress":          models.ReportUnderAnalysis,
	"processing":           models.ReportUnderAnalysis,
	"report generated":     models.ReportGenerated,
	"report pdf (webhook)": models.ReportGenerated,
	"report ready":         models.ReportGenerated,
	"generated":            models.ReportGenerated,
	"reviewed":             models.ReportReviewed,
	"approved":             models.ReportReviewed,
	"signed":               models.ReportReviewed,
	"verified":             models.ReportReviewed,
	"delivered":            models.ReportDelivered,
	"report delivered":     models.ReportDelivered,
	"sent":                 models.ReportDelivered,
	"dispatched":           models.ReportDelivered,
	"archived":             models.ReportArchived,
}

var reportStatusKeywords = []struct {
	keywords []string
	status   models.ReportStatus
}{
	{[]string{"archiv"}, models.ReportArchived},
	{[]string{"deliver", "dispatch", "sent"}, models.ReportDelivered},
	{[]string{"review", "approv", "sign", "verif"}, models.ReportReviewed},
	{[]string{"generat", "pdf", "ready"}, models.ReportGenerated},
	{[]string{"analys", "progress", "process"}, models.ReportUnderAnalysis},
	{[]string{"collect", "sample", "specimen", "accession"}, models.ReportSampleCollected},
	{[]string{"pending", "order", "request"}, models.ReportPending},
}

// ReportStatus maps a raw upstream status onto the report status enum.
func ReportStatus(raw interface{}) models.ReportStatus {
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return DefaultReportStatus
	}
	lowered := strings.ToLower(strings.TrimSpace(s))
	if status, found := reportStatusExact[lowered]; found {
		return status
	}
	for _, entry := range reportStatusKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				return entry.status
			}
		}
	}
	return DefaultReportStatus
}

var specialtyExact = map[string]models.Specialty{
	"none (default)":       models.SpecialtyGeneralPractitioner,
	"none":                 models.SpecialtyGeneralPractitioner,
	"general practitioner": models.SpecialtyGeneralPractitioner,
	"general physician":    models.SpecialtyGeneralPractitioner,
	"gp":                   models.SpecialtyGeneralPractitioner,
	"family medicine":      models.SpecialtyGeneralPractitioner,
	"cardiologist":         models.SpecialtyCardiologist,
	"cardiology":           models.SpecialtyCardiologist,
	"dermatologist":        models.SpecialtyDermatologist,
	"dermatology":          models.SpecialtyDermatologist,
	"dentist":              models.SpecialtyDentist,
	"dental":               models.SpecialtyDentist,
	"oculist":              models.SpecialtyOculist,
	"ophthalmologist":      models.SpecialtyOculist,
	"eye specialist":       models.SpecialtyOculist,
	"surgeon":              models.SpecialtySurgeon,
	"general surgeon":      models.SpecialtySurgeon,
	"physician":            models.SpecialtyPhysician,
	"internal medicine":    models.SpecialtyPhysician,
	"gynecologist":         models.SpecialtyGynecologist,
	"gynaecologist":        models.SpecialtyGynecologist,
	"obstetrician":         models.SpecialtyGynecologist,
	"neurologist":          models.SpecialtyNeurologist,
	"neurology":            models.SpecialtyNeurologist,
	"oncologist":           models.SpecialtyOncologist,
	"oncology":             models.SpecialtyOncologist,
	"orthopedist":          models.SpecialtyOrthopedist,
	"orthopaedic":          models.SpecialtyOrthopedist,
	"orthopedic surgeon":   models.SpecialtyOrthopedist,
	"physiotherapist":      models.SpecialtyPhysiotherapist,
	"physiotherapy":        models.SpecialtyPhysiotherapist,
	"anesthesiologist":     models.SpecialtyAnesthesiologist,
	"anaesthesiologist":    models.SpecialtyAnesthesiologist,
	"other":                models.SpecialtyOther,
}

// physio must be checked before physician: "physiotherapist" contains
// neither "physician" nor the other way around, but the "physi" stems
// would collide if ordered carelessly.
var specialtyKeywords = []struct {
	keywords  []string
	specialty models.Specialty
}{
	{[]string{"cardio", "heart"}, models.SpecialtyCardiologist},
	{[]string{"derma", "skin"}, models.SpecialtyDermatologist},
	{[]string{"dent", "tooth", "teeth"}, models.SpecialtyDentist},
	{[]string{"ocul", "ophthal", "eye"}, models.SpecialtyOculist},
	{[]string{"gynec", "gynaec", "obstet"}, models.SpecialtyGynecologist},
	{[]string{"neuro"}, models.SpecialtyNeurologist},
	{[]string{"onco", "cancer"}, models.SpecialtyOncologist},
	{[]string{"ortho", "bone"}, models.SpecialtyOrthopedist},
	{[]string{"physiother", "physio"}, models.SpecialtyPhysiotherapist},
	{[]string{"anesth", "anaesth"}, models.SpecialtyAnesthesiologist},
	{[]string{"surg"}, models.SpecialtySurgeon},
	{[]string{"physician", "internal med"}, models.SpecialtyPhysician},
	{[]string{"general", "family"}, models.SpecialtyGeneralPractitioner},
}

// Specialty maps a raw upstream specialty onto the doctor specialty enum.
func Specialty(raw interface{}) models.Specialty {
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return DefaultSpecialty
	}
	lowered := strings.ToLower(strings.TrimSpace(s))
	if sp, found := specialtyExact[lowered]; found {
		return sp
	}
	for _, entry := range specialtyKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				return entry.specialty
			}
		}
	}
	return DefaultSpecialty
}
