package middleware

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/pkg/httputil"
	"github.com/jwalitptl/patient-api/pkg/validator"
)

const (
	ContextPatientID    = "patient_id"
	ContextPatientInput = "patient_input"

	MsgInvalidPatientID = "Patient ID must be a valid UUID"
	MsgInvalidJSON      = "Request body must be valid JSON"
)

// ValidatePatientID rejects requests whose :id is not a UUID and stores the parsed id.
func ValidatePatientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			httputil.RespondWithValidation(c, []string{MsgInvalidPatientID})
			return
		}
		c.Set(ContextPatientID, id)
		c.Next()
	}
}

// ValidatePatientData binds the JSON body and runs every patient rule, answering 400
// with all violations. The bound input is stored for the handler.
func ValidatePatientData(v *validator.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in model.PatientInput
		// An empty body is treated as an empty record so every required rule reports.
		if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
			httputil.RespondWithValidation(c, []string{MsgInvalidJSON})
			return
		}

		if violations := v.Patient(&in); len(violations) > 0 {
			httputil.RespondWithValidation(c, violations.Messages())
			return
		}

		c.Set(ContextPatientInput, &in)
		c.Next()
	}
}

// PatientID returns the id stored by ValidatePatientID.
func PatientID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextPatientID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// PatientInput returns the body stored by ValidatePatientData.
func PatientInput(c *gin.Context) (*model.PatientInput, bool) {
	v, ok := c.Get(ContextPatientInput)
	if !ok {
		return nil, false
	}
	in, ok := v.(*model.PatientInput)
	return in, ok
}
