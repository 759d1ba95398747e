// Package consolidate folds independently arriving webhook fragments into
// the long-lived Patient/Report/Doctor/Lab record set. Entity writes are
// idempotent per identity key; cross-entity consistency is best-effort,
// matching the upstream system, which offers no transactions across
// collections.
package consolidate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"lab-dashboard-server/internal/blobstore"
	"lab-dashboard-server/internal/extract"
	"lab-dashboard-server/internal/metrics"
	"lab-dashboard-server/internal/models"
	"lab-dashboard-server/internal/normalize"
	"lab-dashboard-server/internal/notify"
	"lab-dashboard-server/internal/store"
)

const (
	defaultBlobTimeout  = 10 * time.Second
	defaultEmailTimeout = 10 * time.Second
	dispatchTimeout     = 30 * time.Second
)

// Consolidator merges webhook fragments into the consolidated record set.
type Consolidator struct {
	store        store.Store
	blobs        blobstore.Store
	mailer       notify.EmailSender
	logger       zerolog.Logger
	alertTo      string
	blobTimeout  time.Duration
	emailTimeout time.Duration

	tasks taskGroup
}

// New creates a Consolidator. blobs, mailer and alertTo may be zero to
// disable the corresponding side effect.
func New(s store.Store, blobs blobstore.Store, mailer notify.EmailSender, logger zerolog.Logger, alertTo string) *Consolidator {
	return &Consolidator{
		store:        s,
		blobs:        blobs,
		mailer:       mailer,
		logger:       logger,
		alertTo:      alertTo,
		blobTimeout:  defaultBlobTimeout,
		emailTimeout: defaultEmailTimeout,
	}
}

// Dispatch runs consolidation for a payload as a fire-and-forget background
// task. Failures are logged and counted, never surfaced to the webhook
// caller; the HTTP response does not wait on this.
func (c *Consolidator) Dispatch(kind models.EventKind, payload extract.Payload) {
	c.tasks.run(func() {
		defer func() {
			if r := recover(); r != nil {
				metrics.ConsolidationFailures.Inc()
				c.logger.Error().Interface("panic", r).Str("kind", string(kind)).Msg("consolidation panicked")
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := c.Consolidate(ctx, kind, extract.Extract(payload)); err != nil {
			metrics.ConsolidationFailures.Inc()
			c.logger.Error().Err(err).Str("kind", string(kind)).Msg("background consolidation failed")
		}
	})
}

// Wait blocks until all dispatched tasks have finished. Used on shutdown
// and by tests.
func (c *Consolidator) Wait() {
	c.tasks.wait()
}

// Consolidate folds one fragment into the record set: patient resolve and
// merge, doctor/lab find-or-create and linkage, status reflection, and the
// delivery alert. It is idempotent, so running it both on the synchronous
// write path and again in the background is harmless.
func (c *Consolidator) Consolidate(ctx context.Context, kind models.EventKind, frag extract.Fragment) error {
	patient, err := c.ConsolidatePatient(ctx, frag)
	if err != nil {
		return fmt.Errorf("consolidate patient: %w", err)
	}

	doctor, err := c.FindOrCreateDoctor(ctx, frag)
	if err != nil {
		return fmt.Errorf("find-or-create doctor: %w", err)
	}
	if doctor != nil && patient.AssignedDoctorID == nil {
		patient.AssignedDoctorID = &doctor.ID
		doctor.PatientCount++
		if err := c.store.SaveDoctor(ctx, doctor); err != nil {
			return fmt.Errorf("save doctor: %w", err)
		}
	}

	lab, err := c.FindOrCreateLab(ctx, frag)
	if err != nil {
		return fmt.Errorf("find-or-create lab: %w", err)
	}
	if lab != nil && patient.LabID == nil {
		patient.LabID = &lab.ID
	}

	if kind == models.EventReportStatus && frag.Status != "" {
		patient.ReportStatus = string(normalize.ReportStatus(frag.Status))
	}

	if err := c.store.SavePatient(ctx, patient); err != nil {
		return fmt.Errorf("save patient: %w", err)
	}

	if kind == models.EventReportStatus {
		c.maybeAlert(patient, frag)
	}
	return nil
}

// ConsolidatePatient resolves the patient a fragment belongs to, merging
// into the existing record or creating a new one under the derived id.
func (c *Consolidator) ConsolidatePatient(ctx context.Context, frag extract.Fragment) (*models.Patient, error) {
	patient, err := c.findExistingPatient(ctx, frag)
	if err != nil {
		return nil, err
	}
	if patient != nil {
		MergePatient(patient, frag)
		if err := c.store.SavePatient(ctx, patient); err != nil {
			return nil, err
		}
		return patient, nil
	}

	patient = NewPatient(ResolvePatientID(frag), frag)
	if err := c.store.CreatePatient(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// maybeAlert emails the configured recipient when a report reaches a
// terminal status. Best-effort: errors are logged and dropped.
func (c *Consolidator) maybeAlert(patient *models.Patient, frag extract.Fragment) {
	if c.mailer == nil || c.alertTo == "" {
		return
	}
	status := normalize.ReportStatus(frag.Status)
	if status != models.ReportGenerated && status != models.ReportDelivered {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.emailTimeout)
	defer cancel()
	msg := notify.EmailMessage{
		To:      c.alertTo,
		Subject: fmt.Sprintf("Report %s for %s", status, patient.Name),
		Body: fmt.Sprintf("Patient %s (%s) has a report with status %q.",
			patient.Name, patient.PatientID, status),
	}
	if err := c.mailer.Send(ctx, msg); err != nil {
		c.logger.Error().Err(err).Str("patientId", patient.PatientID).Msg("report alert email failed")
	}
}
