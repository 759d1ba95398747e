package models

import (
	"time"

	"gorm.io/datatypes"
)

// EventKind names the four logical webhook event kinds the upstream lab
// system delivers.
type EventKind string

const (
	EventPatientRegistration EventKind = "patient-registration"
	EventBillGeneration      EventKind = "bill-generation"
	EventReportStatus        EventKind = "report-status"
	EventSampleStatus        EventKind = "sample-status"
)

// RequestDump is the append-only system of record for every webhook payload
// as received, keyed only by arrival time. Rows are created once and never
// mutated.
type RequestDump struct {
	ID         uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind       EventKind         `gorm:"size:50;index" json:"kind"`
	Payload    datatypes.JSONMap `json:"payload"`
	ReceivedAt time.Time         `gorm:"autoCreateTime;index" json:"receivedAt"`
}

// ReportStatusTracker logs every report-status webhook verbatim.
type ReportStatusTracker struct {
	ID         uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	Payload    datatypes.JSONMap `json:"payload"`
	ReceivedAt time.Time         `gorm:"autoCreateTime;index" json:"receivedAt"`
}

// SampleStatusTracker logs every sample-status webhook verbatim.
type SampleStatusTracker struct {
	ID         uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	Payload    datatypes.JSONMap `json:"payload"`
	ReceivedAt time.Time         `gorm:"autoCreateTime;index" json:"receivedAt"`
}
