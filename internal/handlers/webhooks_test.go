package handlers_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lab-dashboard-server/internal/blobstore"
	"lab-dashboard-server/internal/config"
	"lab-dashboard-server/internal/consolidate"
	"lab-dashboard-server/internal/models"
	"lab-dashboard-server/internal/routes"
	"lab-dashboard-server/internal/store"
)

const testToken = "test-secret"

type testApp struct {
	router       *gin.Engine
	store        *store.MemoryStore
	blobs        *blobstore.MemoryStore
	consolidator *consolidate.Consolidator
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.NewMemoryStore()
	blobs := blobstore.NewMemoryStore()
	consolidator := consolidate.New(s, blobs, nil, zerolog.Nop(), "")

	router := gin.New()
	cfg := &config.Config{WebhookToken: testToken}
	routes.SetupRoutes(router, s, consolidator, cfg, zerolog.Nop())

	return &testApp{router: router, store: s, blobs: blobs, consolidator: consolidator}
}

func (a *testApp) post(path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) postWebhook(path, body string) *httptest.ResponseRecorder {
	return a.post(path, body, map[string]string{"X-Webhook-Token": testToken})
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestWebhookRejectedWithoutToken(t *testing.T) {
	app := newTestApp(t)

	w := app.post("/api/v1/webhooks/patient-registration", `{"patientId":"42"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookRejectedWithWrongToken(t *testing.T) {
	app := newTestApp(t)

	w := app.post("/api/v1/webhooks/patient-registration", `{"patientId":"42"}`,
		map[string]string{"X-Webhook-Token": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	count, err := app.store.CountPatients(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "rejected webhooks must have no side effects")
}

func TestWebhookAcceptsBearerToken(t *testing.T) {
	app := newTestApp(t)

	w := app.post("/api/v1/webhooks/patient-registration", `{"patientId":"42"}`,
		map[string]string{"Authorization": "Bearer " + testToken})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestWebhookRejectsMalformedJSON(t *testing.T) {
	app := newTestApp(t)

	w := app.postWebhook("/api/v1/webhooks/patient-registration", `{"patientId":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportWebhookRequiresIdentity(t *testing.T) {
	app := newTestApp(t)

	w := app.postWebhook("/api/v1/webhooks/report-status", `{"status":"Report Generated"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// billId alone is not enough either.
	w = app.postWebhook("/api/v1/webhooks/report-status", `{"billId":100,"status":"Report Generated"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatientRegistrationCreatesPatient(t *testing.T) {
	app := newTestApp(t)

	w := app.postWebhook("/api/v1/webhooks/patient-registration",
		`{"patientId":"42","Patient Name":"Jane Doe","gender":"Female"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	app.consolidator.Wait()

	var resp struct {
		Data struct {
			PatientID string `json:"patientId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PAT-42", resp.Data.PatientID)

	patient, err := app.store.FindPatientByPatientID(context.Background(), "PAT-42")
	require.NoError(t, err)
	require.NotNil(t, patient)
	assert.Equal(t, "Jane Doe", patient.Name)
	assert.Equal(t, "Female", patient.Gender)
}

func TestBillThenReportScenario(t *testing.T) {
	app := newTestApp(t)

	w := app.postWebhook("/api/v1/webhooks/bill-generation",
		`{"billId":100,"Patient Name":"Jane Doe","Patient Age":"34 years","totalAmount":1500}`)
	require.Equal(t, http.StatusCreated, w.Code)
	app.consolidator.Wait()

	patient, err := app.store.FindPatientByPatientID(context.Background(), "BILL-100")
	require.NoError(t, err)
	require.NotNil(t, patient)
	assert.Equal(t, "Jane Doe", patient.Name)
	require.NotNil(t, patient.Age)
	assert.Equal(t, 34, *patient.Age)

	pdf := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake"))
	w = app.postWebhook("/api/v1/webhooks/report-status",
		fmt.Sprintf(`{"billId":100,"testID":[5],"status":"Report PDF (Webhook)","reportBase64":%q}`, pdf))
	require.Equal(t, http.StatusCreated, w.Code)
	app.consolidator.Wait()

	report, err := app.store.FindReportByBillAndTest(context.Background(), "100", "5")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, models.ReportGenerated, report.Status)
	assert.Equal(t, "report-100-5.pdf", report.FileName)
	assert.Contains(t, app.blobs.Objects, "report-100-5.pdf")

	patient, err = app.store.FindPatientByPatientID(context.Background(), "BILL-100")
	require.NoError(t, err)
	require.NotNil(t, patient)
	assert.Equal(t, string(models.ReportGenerated), patient.ReportStatus)
	assert.Equal(t, models.PatientReportGenerated, patient.Status)
	assert.Equal(t, "Jane Doe", patient.Name, "report event must not erase demographics")
	assert.Equal(t, report.PatientRef, patient.ID)

	count, err := app.store.CountPatients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSampleStatusRecordsAndConsolidates(t *testing.T) {
	app := newTestApp(t)

	w := app.postWebhook("/api/v1/webhooks/sample-status",
		`{"patientId":"42","status":"Sample Collected"}`)
	require.Equal(t, http.StatusOK, w.Code)
	app.consolidator.Wait()

	patient, err := app.store.FindPatientByPatientID(context.Background(), "PAT-42")
	require.NoError(t, err)
	require.NotNil(t, patient)
	assert.Equal(t, models.PatientSampleCollected, patient.Status)
}

func TestGetPatientsAndStats(t *testing.T) {
	app := newTestApp(t)

	require.Equal(t, http.StatusCreated, app.postWebhook("/api/v1/webhooks/patient-registration",
		`{"patientId":"1","Patient Name":"A"}`).Code)
	require.Equal(t, http.StatusCreated, app.postWebhook("/api/v1/webhooks/patient-registration",
		`{"patientId":"2","Patient Name":"B"}`).Code)
	app.consolidator.Wait()

	w := app.get("/api/v1/patients")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []models.Patient `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data, 2)

	w = app.get("/api/v1/patients/PAT-1")
	require.Equal(t, http.StatusOK, w.Code)
	var one struct {
		Data models.Patient `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	assert.Equal(t, "A", one.Data.Name)

	w = app.get("/api/v1/patients/PAT-missing")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.get("/api/v1/dashboard/stats")
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Data struct {
			TotalPatients int64 `json:"totalPatients"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.Data.TotalPatients)
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "UP")
}
