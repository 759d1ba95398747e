package models

import (
	"time"

	"gorm.io/datatypes"
)

// PatientStatus is the fixed workflow status set for a patient. Upstream
// free-text statuses are mapped onto it by the normalize package.
type PatientStatus string

const (
	PatientRegistered       PatientStatus = "Registered"
	PatientLabTestScheduled PatientStatus = "Lab Test Scheduled"
	PatientSampleCollected  PatientStatus = "Sample Collected"
	PatientUnderReview      PatientStatus = "Under Review"
	PatientReportGenerated  PatientStatus = "Report Generated"
	PatientReportDelivered  PatientStatus = "Report Delivered"
	PatientCompleted        PatientStatus = "Completed"
	PatientOnHold           PatientStatus = "On Hold"
	PatientCancelled        PatientStatus = "Cancelled"
)

// Patient is the consolidated view of one person across all webhook sources.
// PatientID is the join key for every source table: once assigned it never
// changes for the same underlying person.
type Patient struct {
	BaseModel

	// Identity keys. Different webhook kinds carry different subsets.
	PatientID       string `gorm:"uniqueIndex;size:100;not null" json:"patientId"`
	PatientIDNumber string `gorm:"size:100" json:"patientIdNumber,omitempty"`
	LabPatientID    string `gorm:"size:100;index" json:"labPatientId,omitempty"`
	BillID          string `gorm:"size:100;index" json:"billId,omitempty"`
	BillIDNumber    string `gorm:"size:100" json:"billIdNumber,omitempty"`
	TestID          string `gorm:"size:100" json:"testId,omitempty"`
	ReportID        string `gorm:"size:100" json:"reportId,omitempty"`

	// Demographics
	Name             string            `gorm:"size:255;not null" json:"name"`
	Age              *int              `json:"age,omitempty"`
	Gender           string            `gorm:"size:50;default:'Not Specified'" json:"gender"`
	Phone            string            `gorm:"size:50" json:"phone,omitempty"`
	Email            string            `gorm:"size:255" json:"email,omitempty"`
	AlternateContact string            `gorm:"size:50" json:"alternateContact,omitempty"`
	AlternateEmail   string            `gorm:"size:255" json:"alternateEmail,omitempty"`
	Address          datatypes.JSONMap `json:"address,omitempty"`

	// Billing snapshot, sourced from the bill-generation event.
	TotalAmount     *float64 `json:"totalAmount,omitempty"`
	DueAmount       *float64 `json:"dueAmount,omitempty"`
	AdvancePaid     *float64 `json:"advancePaid,omitempty"`
	Concession      *float64 `json:"concession,omitempty"`
	PaymentStatus   string   `gorm:"size:50" json:"paymentStatus,omitempty"`
	PaymentMode     string   `gorm:"size:50" json:"paymentMode,omitempty"`
	ReferralDoctor  string   `gorm:"size:255" json:"referralDoctor,omitempty"`
	ReferralContact string   `gorm:"size:50" json:"referralContact,omitempty"`
	ReferralAddress string   `gorm:"size:500" json:"referralAddress,omitempty"`

	// Workflow
	Status       PatientStatus `gorm:"size:50" json:"status"`
	CurrentStage string        `gorm:"size:100" json:"currentStage,omitempty"`
	ReportStatus string        `gorm:"size:50" json:"reportStatus,omitempty"`

	AssignedDoctorID *string `gorm:"size:36;index" json:"assignedDoctorId,omitempty"`
	LabID            *string `gorm:"size:36" json:"labId,omitempty"`

	// Append-only fragments carried over from report/bill events.
	FileAttachments       datatypes.JSON `json:"fileAttachments,omitempty"`
	ReportFormatAndValues datatypes.JSON `json:"reportFormatAndValues,omitempty"`

	// Provenance: verbatim copy of the last payload that touched this record.
	WebhookMetadata  datatypes.JSONMap `json:"webhookMetadata,omitempty"`
	RegistrationDate *time.Time        `json:"registrationDate,omitempty"`
	LastVisitDate    *time.Time        `json:"lastVisitDate,omitempty"`

	// Relations (not always preloaded)
	AssignedDoctor *Doctor  `gorm:"foreignKey:AssignedDoctorID" json:"-"`
	LabReports     []Report `gorm:"foreignKey:PatientRef" json:"labReports,omitempty"`
}
