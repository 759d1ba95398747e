package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lab-dashboard-server/internal/models"
)

// MemoryStore is an in-memory Store used by tests and local development
// without a database.
type MemoryStore struct {
	mu       sync.Mutex
	patients []*models.Patient
	doctors  []*models.Doctor
	labs     []*models.Lab
	reports  []*models.Report
	dumps    []models.RequestDump
	reportTr []models.ReportStatusTracker
	sampleTr []models.SampleStatusTracker
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func stamp(base *models.BaseModel) {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	now := time.Now()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

func clonePatient(p *models.Patient) *models.Patient {
	cp := *p
	return &cp
}

func (s *MemoryStore) FindPatientByPatientID(_ context.Context, patientID string) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.patients {
		if p.PatientID == patientID {
			return clonePatient(p), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FindPatientByLabPatientID(_ context.Context, labPatientID string) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.patients {
		if p.LabPatientID != "" && p.LabPatientID == labPatientID {
			return clonePatient(p), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FindPatientByBillID(_ context.Context, billID string) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.patients {
		if (p.BillID != "" && p.BillID == billID) || (p.BillIDNumber != "" && p.BillIDNumber == billID) {
			return clonePatient(p), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreatePatient(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&p.BaseModel)
	s.patients = append(s.patients, clonePatient(p))
	return nil
}

func (s *MemoryStore) SavePatient(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&p.BaseModel)
	for i, existing := range s.patients {
		if existing.ID == p.ID {
			s.patients[i] = clonePatient(p)
			return nil
		}
	}
	s.patients = append(s.patients, clonePatient(p))
	return nil
}

func (s *MemoryStore) ListPatients(_ context.Context, limit, offset int) ([]models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Patient
	for i := len(s.patients) - 1; i >= 0; i-- {
		out = append(out, *s.patients[i])
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) CountPatients(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.patients)), nil
}

func (s *MemoryStore) PatientStatusCounts(_ context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int64)
	for _, p := range s.patients {
		counts[string(p.Status)]++
	}
	return counts, nil
}

func (s *MemoryStore) FindDoctorByName(_ context.Context, name string) (*models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trimmed := strings.TrimSpace(name)
	for _, d := range s.doctors {
		if strings.EqualFold(d.Name, trimmed) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateDoctor(_ context.Context, d *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&d.BaseModel)
	cp := *d
	s.doctors = append(s.doctors, &cp)
	return nil
}

func (s *MemoryStore) SaveDoctor(_ context.Context, d *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&d.BaseModel)
	for i, existing := range s.doctors {
		if existing.ID == d.ID {
			cp := *d
			s.doctors[i] = &cp
			return nil
		}
	}
	cp := *d
	s.doctors = append(s.doctors, &cp)
	return nil
}

func (s *MemoryStore) CountDoctors(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.doctors)), nil
}

func (s *MemoryStore) FindLabByLabID(_ context.Context, labID string) (*models.Lab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.labs {
		if l.LabID == labID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FindLabByName(_ context.Context, name string) (*models.Lab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trimmed := strings.TrimSpace(name)
	for _, l := range s.labs {
		if strings.EqualFold(l.Name, trimmed) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateLab(_ context.Context, l *models.Lab) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&l.BaseModel)
	cp := *l
	s.labs = append(s.labs, &cp)
	return nil
}

func (s *MemoryStore) SaveLab(_ context.Context, l *models.Lab) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&l.BaseModel)
	for i, existing := range s.labs {
		if existing.ID == l.ID {
			cp := *l
			s.labs[i] = &cp
			return nil
		}
	}
	cp := *l
	s.labs = append(s.labs, &cp)
	return nil
}

func (s *MemoryStore) FindReportByReportID(_ context.Context, reportID string) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.ReportID != "" && r.ReportID == reportID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FindReportByBillAndTest(_ context.Context, billID, testID string) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.BillID != "" && r.BillID == billID && r.TestID == testID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FindReportsByPatientRef(_ context.Context, patientRef string) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Report
	for _, r := range s.reports {
		if r.PatientRef == patientRef {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *MemoryStore) CreateReport(_ context.Context, r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&r.BaseModel)
	cp := *r
	s.reports = append(s.reports, &cp)
	return nil
}

func (s *MemoryStore) SaveReport(_ context.Context, r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&r.BaseModel)
	for i, existing := range s.reports {
		if existing.ID == r.ID {
			cp := *r
			s.reports[i] = &cp
			return nil
		}
	}
	cp := *r
	s.reports = append(s.reports, &cp)
	return nil
}

func (s *MemoryStore) CountReports(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.reports)), nil
}

func (s *MemoryStore) AppendRequestDump(_ context.Context, kind models.EventKind, payload map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dumps = append(s.dumps, models.RequestDump{
		ID:         uint(len(s.dumps) + 1),
		Kind:       kind,
		Payload:    payload,
		ReceivedAt: time.Now(),
	})
	return nil
}

func (s *MemoryStore) AppendReportStatus(_ context.Context, payload map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportTr = append(s.reportTr, models.ReportStatusTracker{
		ID:         uint(len(s.reportTr) + 1),
		Payload:    payload,
		ReceivedAt: time.Now(),
	})
	return nil
}

func (s *MemoryStore) AppendSampleStatus(_ context.Context, payload map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sampleTr = append(s.sampleTr, models.SampleStatusTracker{
		ID:         uint(len(s.sampleTr) + 1),
		Payload:    payload,
		ReceivedAt: time.Now(),
	})
	return nil
}

// RequestDumps returns the raw event log, newest last.
func (s *MemoryStore) RequestDumps() []models.RequestDump {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.RequestDump(nil), s.dumps...)
}
