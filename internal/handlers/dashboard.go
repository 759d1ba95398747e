package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"lab-dashboard-server/internal/store"
	"lab-dashboard-server/internal/utils"
)

// DashboardHandler serves the read side the dashboard frontend queries:
// consolidated patients, their reports, and simple counts.
type DashboardHandler struct {
	Store store.Store
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(s store.Store) *DashboardHandler {
	return &DashboardHandler{Store: s}
}

// GetPatients handles fetching consolidated patients, newest first.
func (h *DashboardHandler) GetPatients(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	patients, err := h.Store.ListPatients(c.Request.Context(), limit, offset)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

// GetPatientByID handles fetching one consolidated patient with its
// reports.
func (h *DashboardHandler) GetPatientByID(c *gin.Context) {
	patientID := c.Param("patientId")

	patient, err := h.Store.FindPatientByPatientID(c.Request.Context(), patientID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch patient: "+err.Error())
		return
	}
	if patient == nil {
		utils.NotFound(c, "Patient not found")
		return
	}

	reports, err := h.Store.FindReportsByPatientRef(c.Request.Context(), patient.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch reports: "+err.Error())
		return
	}
	patient.LabReports = reports

	utils.Success(c, "Patient fetched successfully", patient)
}

// GetStats handles the dashboard summary: entity counts plus patients
// grouped by workflow status.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	patients, err := h.Store.CountPatients(ctx)
	if err != nil {
		utils.InternalServerError(c, "Failed to count patients: "+err.Error())
		return
	}
	reports, err := h.Store.CountReports(ctx)
	if err != nil {
		utils.InternalServerError(c, "Failed to count reports: "+err.Error())
		return
	}
	doctors, err := h.Store.CountDoctors(ctx)
	if err != nil {
		utils.InternalServerError(c, "Failed to count doctors: "+err.Error())
		return
	}
	byStatus, err := h.Store.PatientStatusCounts(ctx)
	if err != nil {
		utils.InternalServerError(c, "Failed to aggregate statuses: "+err.Error())
		return
	}

	utils.Success(c, "Dashboard stats fetched successfully", gin.H{
		"totalPatients":    patients,
		"totalReports":     reports,
		"totalDoctors":     doctors,
		"patientsByStatus": byStatus,
	})
}
