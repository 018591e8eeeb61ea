package apiErrors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validação",
			err:        domain.NewValidationError("name", "is required"),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrInvalidRequest,
		},
		{
			name:       "não encontrado embrulhado",
			err:        fmt.Errorf("load: %w", domain.NewNotFoundError(domain.EntityContent, "c-1")),
			wantStatus: http.StatusNotFound,
			wantCode:   ErrNotFound,
		},
		{
			name:       "conflito",
			err:        domain.NewConflictError("entry already dispatched"),
			wantStatus: http.StatusConflict,
			wantCode:   ErrConflict,
		},
		{
			name:       "gateway",
			err:        &domain.GatewayError{Channel: domain.ChannelSlack, Err: errors.New("boom")},
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrExternalService,
		},
		{
			name:       "erro desconhecido",
			err:        errors.New("unexpected"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteDomainError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.err.Error(), body.Message)
		})
	}
}

func TestFromError_ValidationDetails(t *testing.T) {
	apiErr := FromError(domain.NewValidationError("scheduledAt", "must be in the future"))
	assert.Equal(t, map[string]string{"field": "scheduledAt"}, apiErr.Details)

	assert.Equal(t, ErrInternalServer, FromError(nil).Code)
	assert.Equal(t, http.StatusInternalServerError, StatusFor("UNKNOWN"))
}
