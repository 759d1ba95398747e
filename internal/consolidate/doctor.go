package consolidate

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"lab-dashboard-server/internal/extract"
	"lab-dashboard-server/internal/models"
	"lab-dashboard-server/internal/normalize"
	"lab-dashboard-server/internal/utils"
)

// FindOrCreateDoctor looks a doctor up by case-insensitive exact name match
// and creates one with synthesized contact details if absent. On an
// existing record, specialty and contact are updated only while the stored
// value is still a placeholder; a real value is never overwritten by
// another real one.
func (c *Consolidator) FindOrCreateDoctor(ctx context.Context, frag extract.Fragment) (*models.Doctor, error) {
	name := strings.TrimSpace(frag.DoctorName)
	if name == "" {
		return nil, nil
	}

	doctor, err := c.store.FindDoctorByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if doctor != nil {
		changed := false
		if frag.DoctorSpecialty != "" && (doctor.Specialty == "" || doctor.Specialty == normalize.DefaultSpecialty) {
			doctor.Specialty = normalize.Specialty(frag.DoctorSpecialty)
			changed = true
		}
		if doctor.HasPlaceholderEmail() && utils.IsValidEmail(frag.DoctorEmail) {
			doctor.Email = frag.DoctorEmail
			changed = true
		}
		if doctor.HasPlaceholderPhone() && frag.DoctorPhone != "" {
			doctor.Phone = frag.DoctorPhone
			changed = true
		}
		if changed {
			if err := c.store.SaveDoctor(ctx, doctor); err != nil {
				return nil, err
			}
		}
		return doctor, nil
	}

	doctor = &models.Doctor{
		DoctorID:  "DOC-" + strings.ToUpper(uuid.New().String()[:8]),
		Name:      name,
		Specialty: normalize.Specialty(frag.DoctorSpecialty),
		Status:    "Active",
	}
	if utils.IsValidEmail(frag.DoctorEmail) {
		doctor.Email = frag.DoctorEmail
	} else {
		doctor.Email = slugify(name) + "@" + models.PlaceholderEmailDomain
	}
	if frag.DoctorPhone != "" {
		doctor.Phone = frag.DoctorPhone
	} else {
		doctor.Phone = models.PlaceholderPhone
	}
	if err := c.store.CreateDoctor(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

// slugify turns "Dr. A. B. Smith" into "dr-a-b-smith" for synthesized
// email addresses.
func slugify(name string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
