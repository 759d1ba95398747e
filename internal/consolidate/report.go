package consolidate

import (
	"context"
	"encoding/base64"
	"fmt"

	"gorm.io/datatypes"

	"lab-dashboard-server/internal/extract"
	"lab-dashboard-server/internal/metrics"
	"lab-dashboard-server/internal/models"
	"lab-dashboard-server/internal/normalize"
)

// ProcessReportEvent is the synchronous write path of a report-status
// webhook: it resolves the owning patient, upserts one report per identity
// key carried by the event, and reflects the latest report status onto the
// patient. The caller validates that the event carries a usable identity
// before calling.
//
// Two identity schemes coexist upstream and both stay supported: reportId
// on the primary path, (billId, testId) pairs on the secondary one.
func (c *Consolidator) ProcessReportEvent(ctx context.Context, frag extract.Fragment) ([]*models.Report, error) {
	patient, err := c.ConsolidatePatient(ctx, frag)
	if err != nil {
		return nil, err
	}

	var reports []*models.Report
	if frag.ReportID != "" {
		report, err := c.upsertReportByReportID(ctx, frag, patient)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	} else {
		for _, testID := range frag.TestIDs {
			report, err := c.upsertReportByBillAndTest(ctx, frag, testID, patient)
			if err != nil {
				return nil, err
			}
			reports = append(reports, report)
		}
	}

	if frag.Status != "" {
		patient.ReportStatus = string(normalize.ReportStatus(frag.Status))
		patient.Status = normalize.PatientStatus(frag.Status)
	}
	if err := c.store.SavePatient(ctx, patient); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Consolidator) upsertReportByReportID(ctx context.Context, frag extract.Fragment, patient *models.Patient) (*models.Report, error) {
	existing, err := c.store.FindReportByReportID(ctx, frag.ReportID)
	if err != nil {
		return nil, err
	}
	return c.applyReport(ctx, existing, frag, frag.ReportID, firstTestID(frag), patient)
}

func (c *Consolidator) upsertReportByBillAndTest(ctx context.Context, frag extract.Fragment, testID string, patient *models.Patient) (*models.Report, error) {
	billID := firstNonEmpty(frag.BillID, frag.BillIDNumber)
	existing, err := c.store.FindReportByBillAndTest(ctx, billID, testID)
	if err != nil {
		return nil, err
	}
	return c.applyReport(ctx, existing, frag, frag.ReportID, testID, patient)
}

// applyReport updates an existing report in place or creates a new one.
// Only fields present in this event are applied; existing fields are never
// nulled out, and repeated delivery for the same key never duplicates.
func (c *Consolidator) applyReport(ctx context.Context, report *models.Report, frag extract.Fragment, reportID, testID string, patient *models.Patient) (*models.Report, error) {
	create := report == nil
	if create {
		report = &models.Report{}
	}

	fillString(&report.ReportID, reportID)
	fillString(&report.BillID, firstNonEmpty(frag.BillID, frag.BillIDNumber))
	fillString(&report.TestID, testID)

	if frag.Status != "" || create {
		report.Status = normalize.ReportStatus(frag.Status)
	}
	if frag.TestName != "" {
		report.TestName = frag.TestName
	}
	if frag.TestCode != "" {
		report.TestCode = frag.TestCode
	}
	if frag.TestCategory != "" {
		report.TestCategory = frag.TestCategory
	}
	report.SigningDoctor = appendObjects(report.SigningDoctor, frag.SigningDoctors)
	if frag.ReportDate != nil {
		report.ReportDate = frag.ReportDate
	}
	if frag.SampleDate != nil {
		report.SampleDate = frag.SampleDate
	}
	if patient != nil {
		report.PatientRef = patient.ID
	}
	if frag.All != nil {
		report.WebhookMetadata = datatypes.JSONMap(frag.All)
	}

	if frag.ReportBase64 != "" {
		report.ReportBase64 = frag.ReportBase64
		c.persistReportFile(ctx, report)
	}

	if create {
		if err := c.store.CreateReport(ctx, report); err != nil {
			return nil, err
		}
		return report, nil
	}
	if err := c.store.SaveReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// persistReportFile decodes the base64 payload and writes it to the blob
// store exactly once: a report that already has a stored path is never
// re-decoded. A malformed payload or a blob-store failure is logged and
// the record kept without a file, favoring availability over completeness.
func (c *Consolidator) persistReportFile(ctx context.Context, report *models.Report) {
	if report.PdfPath != "" || c.blobs == nil {
		return
	}
	data, err := base64.StdEncoding.DecodeString(report.ReportBase64)
	if err != nil {
		c.logger.Warn().Err(err).Str("reportId", report.ReportID).Msg("report payload is not valid base64, skipping file write")
		return
	}

	name := reportFileName(report)
	writeCtx, cancel := context.WithTimeout(ctx, c.blobTimeout)
	defer cancel()
	path, err := c.blobs.Put(writeCtx, name, data)
	if err != nil {
		c.logger.Error().Err(err).Str("file", name).Msg("failed to persist report file")
		return
	}
	report.PdfPath = path
	report.FileName = name
	report.FileSize = int64(len(data))
	metrics.ReportFilesWritten.Inc()
}

func reportFileName(report *models.Report) string {
	if report.ReportID != "" {
		return fmt.Sprintf("report-%s.pdf", report.ReportID)
	}
	return fmt.Sprintf("report-%s-%s.pdf", report.BillID, report.TestID)
}

func firstTestID(frag extract.Fragment) string {
	if len(frag.TestIDs) > 0 {
		return frag.TestIDs[0]
	}
	return ""
}
