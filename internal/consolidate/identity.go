package consolidate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lab-dashboard-server/internal/extract"
	"lab-dashboard-server/internal/models"
)

// ResolvePatientID derives the canonical patient id for a fragment, in
// identity priority order: explicit patient identifier, lab-assigned id,
// bill id, name+phone heuristic, and finally a timestamp id that always
// succeeds but can never be matched again.
func ResolvePatientID(frag extract.Fragment) string {
	if v := firstNonEmpty(frag.PatientID, frag.PatientIDNumber); v != "" {
		return "PAT-" + v
	}
	if frag.LabPatientID != "" {
		return "LAB-PAT-" + frag.LabPatientID
	}
	if v := firstNonEmpty(frag.BillID, frag.BillIDNumber); v != "" {
		return "BILL-" + v
	}
	if frag.Name != "" {
		// Known-weak heuristic carried over from the source system:
		// truncated name plus phone digits is collision-prone.
		return "PAT-" + namePhoneKey(frag.Name, frag.Phone)
	}
	return fmt.Sprintf("PAT-%d", time.Now().UnixMilli())
}

func namePhoneKey(name, phone string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
		if sb.Len() >= 6 {
			break
		}
	}
	digits := digitsOf(phone)
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return sb.String() + digits
}

func digitsOf(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// findExistingPatient reconciles a fragment against stored patients.
// Identifier-derived ids are tried before any billId-based match, because a
// patient keeps one stable identifier across many bills.
func (c *Consolidator) findExistingPatient(ctx context.Context, frag extract.Fragment) (*models.Patient, error) {
	if v := firstNonEmpty(frag.PatientID, frag.PatientIDNumber); v != "" {
		if p, err := c.store.FindPatientByPatientID(ctx, "PAT-"+v); p != nil || err != nil {
			return p, err
		}
	}
	if frag.LabPatientID != "" {
		if p, err := c.store.FindPatientByPatientID(ctx, "LAB-PAT-"+frag.LabPatientID); p != nil || err != nil {
			return p, err
		}
		if p, err := c.store.FindPatientByLabPatientID(ctx, frag.LabPatientID); p != nil || err != nil {
			return p, err
		}
	}
	if v := firstNonEmpty(frag.BillID, frag.BillIDNumber); v != "" {
		if p, err := c.store.FindPatientByPatientID(ctx, "BILL-"+v); p != nil || err != nil {
			return p, err
		}
		if p, err := c.store.FindPatientByBillID(ctx, v); p != nil || err != nil {
			return p, err
		}
	}
	return nil, nil
}
