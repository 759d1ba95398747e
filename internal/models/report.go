package models

import (
	"time"

	"gorm.io/datatypes"
)

// ReportStatus is the fixed status set for a lab/imaging report.
type ReportStatus string

const (
	ReportPending         ReportStatus = "Pending"
	ReportSampleCollected ReportStatus = "Sample Collected"
	ReportUnderAnalysis   ReportStatus = "Under Analysis"
	ReportGenerated       ReportStatus = "Report Generated"
	ReportReviewed        ReportStatus = "Reviewed"
	ReportDelivered       ReportStatus = "Delivered"
	ReportArchived        ReportStatus = "Archived"
)

// Report is one lab/imaging report. Two webhook paths identify it by
// different keys: reportId on the primary path, (billId, testId) on the
// secondary one. Both keys are supported for upsert; repeated delivery for
// the same key updates in place and never duplicates.
type Report struct {
	BaseModel

	ReportID string `gorm:"size:100;index" json:"reportId,omitempty"`
	BillID   string `gorm:"size:100;index:idx_reports_bill_test" json:"billId,omitempty"`
	TestID   string `gorm:"size:100;index:idx_reports_bill_test" json:"testId,omitempty"`

	Status       ReportStatus `gorm:"size:50" json:"status"`
	TestName     string       `gorm:"size:255" json:"testName,omitempty"`
	TestCode     string       `gorm:"size:100" json:"testCode,omitempty"`
	TestCategory string       `gorm:"size:100" json:"testCategory,omitempty"`

	// SigningDoctor is an array of name-tagged objects as delivered upstream.
	SigningDoctor datatypes.JSON `json:"signingDoctor,omitempty"`

	// ReportBase64 may be large; once decoded and persisted to the blob
	// store, PdfPath/FileSize/FileName are derived and the payload is not
	// decoded again.
	ReportBase64 string `gorm:"type:longtext" json:"-"`
	PdfPath      string `gorm:"size:500" json:"pdfPath,omitempty"`
	FileName     string `gorm:"size:255" json:"fileName,omitempty"`
	FileSize     int64  `json:"fileSize,omitempty"`

	ReportDate *time.Time `json:"reportDate,omitempty"`
	SampleDate *time.Time `json:"sampleDate,omitempty"`

	PatientRef string  `gorm:"size:36;index" json:"patientRef,omitempty"`
	DoctorRef  *string `gorm:"size:36" json:"doctorRef,omitempty"`

	WebhookMetadata datatypes.JSONMap `json:"webhookMetadata,omitempty"`

	// Relations (not always preloaded)
	Patient *Patient `gorm:"foreignKey:PatientRef" json:"-"`
	Doctor  *Doctor  `gorm:"foreignKey:DoctorRef" json:"-"`
}
