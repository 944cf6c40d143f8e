package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/middleware"
	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/service/patient"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
	"github.com/jwalitptl/patient-api/pkg/httputil"
)

const (
	MsgListed    = "Patients retrieved successfully"
	MsgRetrieved = "Patient retrieved successfully"
	MsgCreated   = "Patient created successfully"
	MsgUpdated   = "Patient updated successfully"
	MsgDeleted   = "Patient deleted successfully"

	MsgListFailed   = "Error retrieving patients"
	MsgGetFailed    = "Error retrieving patient"
	MsgCreateFailed = "Error creating patient"
	MsgUpdateFailed = "Error updating patient"
	MsgDeleteFailed = "Error deleting patient"
)

type Handler struct {
	service patient.PatientService
}

func NewHandler(service patient.PatientService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListPatients(c *gin.Context) {
	filters := model.PatientFilters{
		SearchTerm: c.Query("search"),
		Status:     c.Query("status"),
	}

	patients, err := h.service.ListPatients(c.Request.Context(), filters)
	if err != nil {
		h.fail(c, err, MsgListFailed)
		return
	}

	httputil.RespondWithList(c, MsgListed, patients, len(patients))
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	p, err := h.service.GetPatient(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, MsgGetFailed)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, MsgRetrieved, p)
}

func (h *Handler) CreatePatient(c *gin.Context) {
	in, ok := patientInput(c)
	if !ok {
		return
	}

	p, err := h.service.CreatePatient(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, MsgCreateFailed)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, MsgCreated, p)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}
	in, ok := patientInput(c)
	if !ok {
		return
	}

	p, err := h.service.UpdatePatient(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err, MsgUpdateFailed)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, MsgUpdated, p)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	p, err := h.service.DeletePatient(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, MsgDeleteFailed)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, MsgDeleted, p)
}

// fail renders err. Unexpected errors are also attached to the context so ErrorHandler logs them.
func (h *Handler) fail(c *gin.Context, err error, failure string) {
	if !apperrors.IsValidation(err) && !apperrors.IsNotFound(err) {
		_ = c.Error(err)
	}
	httputil.RespondWithError(c, err, failure)
}

// patientID prefers the id parsed by ValidatePatientID and falls back to the raw param.
func patientID(c *gin.Context) (uuid.UUID, bool) {
	if id, ok := middleware.PatientID(c); ok {
		return id, true
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidation(c, []string{middleware.MsgInvalidPatientID})
		return uuid.Nil, false
	}
	return id, true
}

// patientInput prefers the body bound by ValidatePatientData. Without that
// middleware the body is bound here and validation is left to the service.
func patientInput(c *gin.Context) (*model.PatientInput, bool) {
	if in, ok := middleware.PatientInput(c); ok {
		return in, true
	}
	var in model.PatientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httputil.RespondWithValidation(c, []string{middleware.MsgInvalidJSON})
		return nil, false
	}
	return &in, true
}
