package consolidate

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lab-dashboard-server/internal/blobstore"
	"lab-dashboard-server/internal/extract"
	"lab-dashboard-server/internal/models"
	"lab-dashboard-server/internal/notify"
	"lab-dashboard-server/internal/store"
)

// countingBlobStore records how many times each object name is written.
type countingBlobStore struct {
	inner  *blobstore.MemoryStore
	writes map[string]int
}

func newCountingBlobStore() *countingBlobStore {
	return &countingBlobStore{inner: blobstore.NewMemoryStore(), writes: make(map[string]int)}
}

func (s *countingBlobStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	s.writes[name]++
	return s.inner.Put(ctx, name, data)
}

func newTestConsolidator(blobs blobstore.Store, mailer notify.EmailSender, alertTo string) (*Consolidator, *store.MemoryStore) {
	s := store.NewMemoryStore()
	return New(s, blobs, mailer, zerolog.Nop(), alertTo), s
}

func TestConsolidateIsIdempotentPerPatient(t *testing.T) {
	c, s := newTestConsolidator(nil, nil, "")
	ctx := context.Background()

	frag := extract.Extract(extract.Payload{
		"patientId":    "42",
		"Patient Name": "Jane Doe",
		"mobile":       "555-1111",
	})
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Consolidate(ctx, models.EventPatientRegistration, frag))
	}

	count, err := s.CountPatients(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	patient, err := s.FindPatientByPatientID(ctx, "PAT-42")
	require.NoError(t, err)
	require.NotNil(t, patient)
	assert.Equal(t, "Jane Doe", patient.Name)
	assert.Equal(t, "555-1111", patient.Phone)
}

func TestConsolidateLinksBillEventToRegisteredPatient(t *testing.T) {
	c, s := newTestConsolidator(nil, nil, "")
	ctx := context.Background()

	require.NoError(t, c.Consolidate(ctx, models.EventPatientRegistration, extract.Extract(extract.Payload{
		"patientId":    "42",
		"Patient Name": "Jane Doe",
	})))
	require.NoError(t, c.Consolidate(ctx, models.EventBillGeneration, extract.Extract(extract.Payload{
		"patientId":   "42",
		"billId":      float64(100),
		"totalAmount": float64(1500),
	})))

	count, err := s.CountPatients(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	patient, err := s.FindPatientByPatientID(ctx, "PAT-42")
	require.NoError(t, err)
	require.NotNil(t, patient)
	assert.Equal(t, "100", patient.BillID)
	require.NotNil(t, patient.TotalAmount)
	assert.Equal(t, 1500.0, *patient.TotalAmount)
	assert.Equal(t, "Jane Doe", patient.Name)
}

func TestDoctorDedupIsCaseInsensitive(t *testing.T) {
	c, s := newTestConsolidator(nil, nil, "")
	ctx := context.Background()

	require.NoError(t, c.Consolidate(ctx, models.EventPatientRegistration, extract.Extract(extract.Payload{
		"patientId":  "1",
		"doctorName": "Dr. Smith",
	})))
	require.NoError(t, c.Consolidate(ctx, models.EventPatientRegistration, extract.Extract(extract.Payload{
		"patientId":  "2",
		"doctorName": "DR. SMITH",
	})))

	count, err := s.CountDoctors(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDoctorCreatedWithPlaceholders(t *testing.T) {
	c, s := newTestConsolidator(nil, nil, "")
	ctx := context.Background()

	_, err := c.FindOrCreateDoctor(ctx, extract.Fragment{DoctorName: "Dr. A. Smith"})
	require.NoError(t, err)

	doctor, err := s.FindDoctorByName(ctx, "dr. a. smith")
	require.NoError(t, err)
	require.NotNil(t, doctor)
	assert.Equal(t, "dr-a-smith@"+models.PlaceholderEmailDomain, doctor.Email)
	assert.Equal(t, models.PlaceholderPhone, doctor.Phone)
	assert.Equal(t, models.SpecialtyGeneralPractitioner, doctor.Specialty)
	assert.True(t, doctor.HasPlaceholderEmail())
}

func TestDoctorPlaceholdersUpgradedOnce(t *testing.T) {
	c, s := newTestConsolidator(nil, nil, "")
	ctx := context.Background()

	_, err := c.FindOrCreateDoctor(ctx, extract.Fragment{DoctorName: "Dr. Smith"})
	require.NoError(t, err)

	_, err = c.FindOrCreateDoctor(ctx, extract.Fragment{
		DoctorName:  "Dr. Smith",
		DoctorEmail: "smith@clinic.example.com",
		DoctorPhone: "555-0001",
	})
	require.NoError(t, err)

	// A later real value must not overwrite the first real one.
	_, err = c.FindOrCreateDoctor(ctx, extract.Fragment{
		DoctorName:  "Dr. Smith",
		DoctorEmail: "other@clinic.example.com",
		DoctorPhone: "555-9999",
	})
	require.NoError(t, err)

	doctor, err := s.FindDoctorByName(ctx, "Dr. Smith")
	require.NoError(t, err)
	require.NotNil(t, doctor)
	assert.Equal(t, "smith@clinic.example.com", doctor.Email)
	assert.Equal(t, "555-0001", doctor.Phone)
}

func TestLabFindOrCreateByIDThenName(t *testing.T) {
	c, s := newTestConsolidator(nil, nil, "")
	ctx := context.Background()

	first, err := c.FindOrCreateLab(ctx, extract.Fragment{LabID: "L1", LabName: "Central Lab"})
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := c.FindOrCreateLab(ctx, extract.Fragment{LabID: "L1"})
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	third, err := c.FindOrCreateLab(ctx, extract.Fragment{LabName: "CENTRAL LAB"})
	require.NoError(t, err)
	require.NotNil(t, third)
	assert.Equal(t, first.ID, third.ID)

	lab, err := s.FindLabByLabID(ctx, "L1")
	require.NoError(t, err)
	require.NotNil(t, lab)
	assert.Equal(t, "Central Lab", lab.Name)
}

func TestReportUpsertByReportIDDoesNotDuplicate(t *testing.T) {
	c, s := newTestConsolidator(nil, nil, "")
	ctx := context.Background()

	frag := extract.Extract(extract.Payload{
		"patientId": "42",
		"reportId":  "R-9",
		"status":    "Under Analysis",
	})
	_, err := c.ProcessReportEvent(ctx, frag)
	require.NoError(t, err)

	frag = extract.Extract(extract.Payload{
		"patientId": "42",
		"reportId":  "R-9",
		"status":    "Report Generated",
	})
	_, err = c.ProcessReportEvent(ctx, frag)
	require.NoError(t, err)

	count, err := s.CountReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	report, err := s.FindReportByReportID(ctx, "R-9")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, models.ReportGenerated, report.Status)

	patient, err := s.FindPatientByPatientID(ctx, "PAT-42")
	require.NoError(t, err)
	require.NotNil(t, patient)
	assert.Equal(t, string(models.ReportGenerated), patient.ReportStatus)
}

func TestReportUpsertByBillAndTestCreatesOnePerTest(t *testing.T) {
	c, s := newTestConsolidator(nil, nil, "")
	ctx := context.Background()

	frag := extract.Extract(extract.Payload{
		"billId": float64(100),
		"testID": []interface{}{float64(5), float64(6)},
		"status": "Report Generated",
	})
	reports, err := c.ProcessReportEvent(ctx, frag)
	require.NoError(t, err)
	assert.Len(t, reports, 2)

	// Redelivery of the same event must not add rows.
	_, err = c.ProcessReportEvent(ctx, frag)
	require.NoError(t, err)

	count, err := s.CountReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	report, err := s.FindReportByBillAndTest(ctx, "100", "5")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "100", report.BillID)
}

func TestReportFileWrittenExactlyOnce(t *testing.T) {
	blobs := newCountingBlobStore()
	c, s := newTestConsolidator(blobs, nil, "")
	ctx := context.Background()

	pdf := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake"))
	frag := extract.Extract(extract.Payload{
		"patientId":    "42",
		"reportId":     "R-9",
		"status":       "Report PDF (Webhook)",
		"reportBase64": pdf,
	})
	_, err := c.ProcessReportEvent(ctx, frag)
	require.NoError(t, err)
	_, err = c.ProcessReportEvent(ctx, frag)
	require.NoError(t, err)

	assert.Equal(t, 1, blobs.writes["report-R-9.pdf"])

	report, err := s.FindReportByReportID(ctx, "R-9")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "memory/report-R-9.pdf", report.PdfPath)
	assert.Equal(t, "report-R-9.pdf", report.FileName)
	assert.Equal(t, int64(len("%PDF-1.4 fake")), report.FileSize)
}

func TestInvalidBase64KeepsRecordWithoutFile(t *testing.T) {
	blobs := newCountingBlobStore()
	c, s := newTestConsolidator(blobs, nil, "")
	ctx := context.Background()

	frag := extract.Extract(extract.Payload{
		"reportId":     "R-bad",
		"reportBase64": "not base64 at all!!!",
	})
	_, err := c.ProcessReportEvent(ctx, frag)
	require.NoError(t, err)

	assert.Empty(t, blobs.writes)
	report, err := s.FindReportByReportID(ctx, "R-bad")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Empty(t, report.PdfPath)
}

func TestAlertSentOnTerminalReportStatus(t *testing.T) {
	mailer := notify.NewStubSender(zerolog.Nop())
	c, _ := newTestConsolidator(nil, mailer, "oncall@example.com")
	ctx := context.Background()

	require.NoError(t, c.Consolidate(ctx, models.EventReportStatus, extract.Extract(extract.Payload{
		"patientId":    "42",
		"Patient Name": "Jane Doe",
		"status":       "Report Delivered",
	})))
	require.Len(t, mailer.Sent, 1)
	assert.Equal(t, "oncall@example.com", mailer.Sent[0].To)
	assert.Contains(t, mailer.Sent[0].Subject, "Jane Doe")

	// Non-terminal statuses stay quiet.
	require.NoError(t, c.Consolidate(ctx, models.EventReportStatus, extract.Extract(extract.Payload{
		"patientId": "42",
		"status":    "Under Analysis",
	})))
	assert.Len(t, mailer.Sent, 1)
}

func TestDispatchRunsInBackgroundAndWaits(t *testing.T) {
	c, s := newTestConsolidator(nil, nil, "")

	c.Dispatch(models.EventPatientRegistration, extract.Payload{
		"patientId":    "42",
		"Patient Name": "Jane Doe",
	})
	c.Wait()

	count, err := s.CountPatients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
