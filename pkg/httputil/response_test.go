package httputil

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func record(fn func(c *gin.Context)) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestRespondWithList_EmptySliceAndCount(t *testing.T) {
	w, body := record(func(c *gin.Context) {
		RespondWithList(c, "Patients retrieved successfully", []string{}, 0)
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, []interface{}{}, body["data"])
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantError  string
		wantErrors []interface{}
	}{
		{
			name:       "validation",
			err:        errors.NewValidation([]string{"Zip code must be exactly 5 digits"}),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Validation failed",
			wantErrors: []interface{}{"Zip code must be exactly 5 digits"},
		},
		{
			name:       "not found",
			err:        errors.NewNotFound("Patient", "42"),
			wantStatus: http.StatusNotFound,
			wantMsg:    "Patient with ID 42 not found",
		},
		{
			name:       "storage",
			err:        errors.NewStorage("update patient", stderrors.New("connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Error updating patient",
			wantError:  "connection refused",
		},
		{
			name:       "plain error",
			err:        stderrors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Error updating patient",
			wantError:  "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := record(func(c *gin.Context) {
				RespondWithError(c, tt.err, "Error updating patient")
			})

			require.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["message"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			} else {
				assert.NotContains(t, body, "error")
			}
			if tt.wantErrors != nil {
				assert.Equal(t, tt.wantErrors, body["errors"])
			}
			assert.NotContains(t, body, "data")
		})
	}
}
