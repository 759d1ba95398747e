package models

import "strings"

// Specialty is the fixed doctor specialty set. Freeform specialty strings
// from webhook payloads are mapped onto it by the normalize package.
type Specialty string

const (
	SpecialtyGeneralPractitioner Specialty = "General Practitioner"
	SpecialtyCardiologist        Specialty = "Cardiologist"
	SpecialtyDermatologist       Specialty = "Dermatologist"
	SpecialtyDentist             Specialty = "Dentist"
	SpecialtyOculist             Specialty = "Oculist"
	SpecialtySurgeon             Specialty = "Surgeon"
	SpecialtyPhysician           Specialty = "Physician"
	SpecialtyGynecologist        Specialty = "Gynecologist"
	SpecialtyNeurologist         Specialty = "Neurologist"
	SpecialtyOncologist          Specialty = "Oncologist"
	SpecialtyOrthopedist         Specialty = "Orthopedist"
	SpecialtyPhysiotherapist     Specialty = "Physiotherapist"
	SpecialtyAnesthesiologist    Specialty = "Anesthesiologist"
	SpecialtyOther               Specialty = "Other"
)

// PlaceholderEmailDomain is the domain of synthesized doctor emails. An
// email on this domain may be replaced by a real one from a later payload;
// a real email is never overwritten.
const PlaceholderEmailDomain = "crelio.local"

// PlaceholderPhone is the synthesized phone for doctors whose payloads
// carried none.
const PlaceholderPhone = "0000000000"

// Doctor is deduplicated by case-insensitive exact name match: no two
// records may share a name under case-insensitive comparison, and
// lookup-before-create is mandatory.
type Doctor struct {
	BaseModel
	DoctorID     string    `gorm:"uniqueIndex;size:100;not null" json:"doctorId"`
	Name         string    `gorm:"size:255;not null;index" json:"name"`
	Specialty    Specialty `gorm:"size:50" json:"specialty"`
	Email        string    `gorm:"size:255" json:"email"`
	Phone        string    `gorm:"size:50" json:"phone"`
	Status       string    `gorm:"size:50;default:'Active'" json:"status"`
	PatientCount int       `gorm:"default:0" json:"patientCount"`
}

// HasPlaceholderEmail reports whether the doctor's email was synthesized
// rather than supplied by a payload.
func (d *Doctor) HasPlaceholderEmail() bool {
	return d.Email == "" || strings.HasSuffix(strings.ToLower(d.Email), "@"+PlaceholderEmailDomain)
}

// HasPlaceholderPhone reports whether the doctor's phone was synthesized.
func (d *Doctor) HasPlaceholderPhone() bool {
	return d.Phone == "" || d.Phone == PlaceholderPhone
}
