package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"lab-dashboard-server/internal/models"
)

// GormStore is the MySQL-backed Store.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore creates a Store over an initialized gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) findPatient(ctx context.Context, query string, args ...interface{}) (*models.Patient, error) {
	var patient models.Patient
	err := s.DB.WithContext(ctx).Where(query, args...).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (s *GormStore) FindPatientByPatientID(ctx context.Context, patientID string) (*models.Patient, error) {
	return s.findPatient(ctx, "patient_id = ?", patientID)
}

func (s *GormStore) FindPatientByLabPatientID(ctx context.Context, labPatientID string) (*models.Patient, error) {
	return s.findPatient(ctx, "lab_patient_id = ?", labPatientID)
}

func (s *GormStore) FindPatientByBillID(ctx context.Context, billID string) (*models.Patient, error) {
	return s.findPatient(ctx, "bill_id = ? OR bill_id_number = ?", billID, billID)
}

func (s *GormStore) CreatePatient(ctx context.Context, p *models.Patient) error {
	return s.DB.WithContext(ctx).Create(p).Error
}

func (s *GormStore) SavePatient(ctx context.Context, p *models.Patient) error {
	return s.DB.WithContext(ctx).Save(p).Error
}

func (s *GormStore) ListPatients(ctx context.Context, limit, offset int) ([]models.Patient, error) {
	var patients []models.Patient
	err := s.DB.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&patients).Error
	return patients, err
}

func (s *GormStore) CountPatients(ctx context.Context) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Patient{}).Count(&count).Error
	return count, err
}

// PatientStatusCounts groups patients by workflow status, the one
// aggregation the dashboard needs.
func (s *GormStore) PatientStatusCounts(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := s.DB.WithContext(ctx).
		Model(&models.Patient{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// FindDoctorByName matches the full name case-insensitively, never as a
// substring.
func (s *GormStore) FindDoctorByName(ctx context.Context, name string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := s.DB.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&doctor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (s *GormStore) CreateDoctor(ctx context.Context, d *models.Doctor) error {
	return s.DB.WithContext(ctx).Create(d).Error
}

func (s *GormStore) SaveDoctor(ctx context.Context, d *models.Doctor) error {
	return s.DB.WithContext(ctx).Save(d).Error
}

func (s *GormStore) CountDoctors(ctx context.Context) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Doctor{}).Count(&count).Error
	return count, err
}

func (s *GormStore) FindLabByLabID(ctx context.Context, labID string) (*models.Lab, error) {
	var lab models.Lab
	err := s.DB.WithContext(ctx).Where("lab_id = ?", labID).First(&lab).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lab, nil
}

func (s *GormStore) FindLabByName(ctx context.Context, name string) (*models.Lab, error) {
	var lab models.Lab
	err := s.DB.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&lab).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lab, nil
}

func (s *GormStore) CreateLab(ctx context.Context, l *models.Lab) error {
	return s.DB.WithContext(ctx).Create(l).Error
}

func (s *GormStore) SaveLab(ctx context.Context, l *models.Lab) error {
	return s.DB.WithContext(ctx).Save(l).Error
}

func (s *GormStore) findReport(ctx context.Context, query string, args ...interface{}) (*models.Report, error) {
	var report models.Report
	err := s.DB.WithContext(ctx).Where(query, args...).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *GormStore) FindReportByReportID(ctx context.Context, reportID string) (*models.Report, error) {
	return s.findReport(ctx, "report_id = ?", reportID)
}

func (s *GormStore) FindReportByBillAndTest(ctx context.Context, billID, testID string) (*models.Report, error) {
	return s.findReport(ctx, "bill_id = ? AND test_id = ?", billID, testID)
}

func (s *GormStore) FindReportsByPatientRef(ctx context.Context, patientRef string) ([]models.Report, error) {
	var reports []models.Report
	err := s.DB.WithContext(ctx).
		Where("patient_ref = ?", patientRef).
		Order("created_at asc").
		Find(&reports).Error
	return reports, err
}

func (s *GormStore) CreateReport(ctx context.Context, r *models.Report) error {
	return s.DB.WithContext(ctx).Create(r).Error
}

func (s *GormStore) SaveReport(ctx context.Context, r *models.Report) error {
	return s.DB.WithContext(ctx).Save(r).Error
}

func (s *GormStore) CountReports(ctx context.Context) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Report{}).Count(&count).Error
	return count, err
}

func (s *GormStore) AppendRequestDump(ctx context.Context, kind models.EventKind, payload map[string]interface{}) error {
	return s.DB.WithContext(ctx).Create(&models.RequestDump{Kind: kind, Payload: payload}).Error
}

func (s *GormStore) AppendReportStatus(ctx context.Context, payload map[string]interface{}) error {
	return s.DB.WithContext(ctx).Create(&models.ReportStatusTracker{Payload: payload}).Error
}

func (s *GormStore) AppendSampleStatus(ctx context.Context, payload map[string]interface{}) error {
	return s.DB.WithContext(ctx).Create(&models.SampleStatusTracker{Payload: payload}).Error
}
