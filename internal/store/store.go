// Package store persists the consolidated record set. The Store interface
// covers exactly the operations the webhook pipeline needs: lookups by the
// shifting identity keys, create/save, counts and a status group-count for
// the dashboard, and the append-only raw event logs. The gorm
// implementation backs production; the in-memory one backs tests.
package store

import (
	"context"

	"lab-dashboard-server/internal/models"
)

// Store is the persistence boundary of the consolidation pipeline.
// Find methods return (nil, nil) when no record matches.
type Store interface {
	FindPatientByPatientID(ctx context.Context, patientID string) (*models.Patient, error)
	FindPatientByLabPatientID(ctx context.Context, labPatientID string) (*models.Patient, error)
	FindPatientByBillID(ctx context.Context, billID string) (*models.Patient, error)
	CreatePatient(ctx context.Context, p *models.Patient) error
	SavePatient(ctx context.Context, p *models.Patient) error
	ListPatients(ctx context.Context, limit, offset int) ([]models.Patient, error)
	CountPatients(ctx context.Context) (int64, error)
	PatientStatusCounts(ctx context.Context) (map[string]int64, error)

	FindDoctorByName(ctx context.Context, name string) (*models.Doctor, error)
	CreateDoctor(ctx context.Context, d *models.Doctor) error
	SaveDoctor(ctx context.Context, d *models.Doctor) error
	CountDoctors(ctx context.Context) (int64, error)

	FindLabByLabID(ctx context.Context, labID string) (*models.Lab, error)
	FindLabByName(ctx context.Context, name string) (*models.Lab, error)
	CreateLab(ctx context.Context, l *models.Lab) error
	SaveLab(ctx context.Context, l *models.Lab) error

	FindReportByReportID(ctx context.Context, reportID string) (*models.Report, error)
	FindReportByBillAndTest(ctx context.Context, billID, testID string) (*models.Report, error)
	FindReportsByPatientRef(ctx context.Context, patientRef string) ([]models.Report, error)
	CreateReport(ctx context.Context, r *models.Report) error
	SaveReport(ctx context.Context, r *models.Report) error
	CountReports(ctx context.Context) (int64, error)

	AppendRequestDump(ctx context.Context, kind models.EventKind, payload map[string]interface{}) error
	AppendReportStatus(ctx context.Context, payload map[string]interface{}) error
	AppendSampleStatus(ctx context.Context, payload map[string]interface{}) error
}
