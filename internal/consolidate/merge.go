package consolidate

import (
	"encoding/json"

	"gorm.io/datatypes"

	"lab-dashboard-server/internal/extract"
	"lab-dashboard-server/internal/models"
	"lab-dashboard-server/internal/normalize"
)

// MergePatient folds a fragment into a patient record field by field.
// Demographic and billing scalars are first-write-wins: a later event
// repeating stale or incomplete data must not clobber a richer earlier
// record. Workflow fields (status, current stage, payment status) always
// take the latest value. Arrays are concatenated without dedup; address is
// shallow-merged null-fill-only; invalid dates were already dropped by the
// extractor.
func MergePatient(p *models.Patient, frag extract.Fragment) {
	fillString(&p.PatientIDNumber, frag.PatientIDNumber)
	fillString(&p.LabPatientID, frag.LabPatientID)
	fillString(&p.BillID, frag.BillID)
	fillString(&p.BillIDNumber, frag.BillIDNumber)
	fillString(&p.ReportID, frag.ReportID)
	if len(frag.TestIDs) > 0 {
		fillString(&p.TestID, frag.TestIDs[0])
	}

	fillString(&p.Name, frag.Name)
	if p.Age == nil && frag.Age != nil {
		p.Age = frag.Age
	}
	fillString(&p.Gender, frag.Gender)
	fillString(&p.Phone, frag.Phone)
	fillString(&p.Email, frag.Email)
	fillString(&p.AlternateContact, frag.AlternateContact)
	fillString(&p.AlternateEmail, frag.AlternateEmail)
	p.Address = mergeAddress(p.Address, frag.Address)

	fillFloat(&p.TotalAmount, frag.TotalAmount)
	fillFloat(&p.DueAmount, frag.DueAmount)
	fillFloat(&p.AdvancePaid, frag.AdvancePaid)
	fillFloat(&p.Concession, frag.Concession)
	fillString(&p.ReferralDoctor, frag.ReferralDoctor)
	fillString(&p.ReferralContact, frag.ReferralContact)
	fillString(&p.ReferralAddress, frag.ReferralAddress)

	// Workflow state reflects the most recent event.
	if frag.Status != "" {
		p.Status = normalize.PatientStatus(frag.Status)
	}
	if frag.CurrentStage != "" {
		p.CurrentStage = frag.CurrentStage
	}
	if frag.PaymentStatus != "" {
		p.PaymentStatus = frag.PaymentStatus
	}
	if frag.PaymentMode != "" {
		p.PaymentMode = frag.PaymentMode
	}

	p.FileAttachments = appendObjects(p.FileAttachments, frag.Attachments)
	p.ReportFormatAndValues = appendObjects(p.ReportFormatAndValues, frag.ReportValues)

	if p.RegistrationDate == nil && frag.RegistrationDate != nil {
		p.RegistrationDate = frag.RegistrationDate
	}
	if frag.LastVisitDate != nil {
		p.LastVisitDate = frag.LastVisitDate
	}

	// Verbatim passthrough of the last payload received.
	if frag.All != nil {
		p.WebhookMetadata = datatypes.JSONMap(frag.All)
	}
}

// NewPatient builds a fresh record for a fragment, applying defaults the
// schema requires.
func NewPatient(patientID string, frag extract.Fragment) *models.Patient {
	p := &models.Patient{
		PatientID: patientID,
		Status:    normalize.PatientStatus(frag.Status),
	}
	MergePatient(p, frag)
	if p.Name == "" {
		p.Name = "Unknown"
	}
	if p.Gender == "" {
		p.Gender = "Not Specified"
	}
	return p
}

func fillString(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}

func fillFloat(dst **float64, src *float64) {
	if *dst == nil && src != nil {
		*dst = src
	}
}

// mergeAddress shallow-merges sub-keys with the same null-fill-only rule,
// then strips any null sub-keys left over.
func mergeAddress(existing datatypes.JSONMap, incoming map[string]interface{}) datatypes.JSONMap {
	if len(incoming) == 0 && len(existing) == 0 {
		return existing
	}
	merged := datatypes.JSONMap{}
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range incoming {
		if cur, has := merged[k]; !has || cur == nil || cur == "" {
			merged[k] = v
		}
	}
	for k, v := range merged {
		if v == nil {
			delete(merged, k)
		}
	}
	return merged
}

// appendObjects concatenates incoming objects onto a stored JSON array.
// Duplicates are accepted; a corrupt stored array is replaced rather than
// failing the record.
func appendObjects(existing datatypes.JSON, incoming []map[string]interface{}) datatypes.JSON {
	if len(incoming) == 0 {
		return existing
	}
	var arr []interface{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &arr); err != nil {
			arr = nil
		}
	}
	for _, obj := range incoming {
		arr = append(arr, obj)
	}
	out, err := json.Marshal(arr)
	if err != nil {
		return existing
	}
	return datatypes.JSON(out)
}
