package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-hub-api/pkg/log"
)

const secret = "test-secret"

func signToken(t *testing.T, key string, expiresAt time.Time) string {
	t.Helper()
	claims := OperatorClaims{
		Name: "ops",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := OperatorFromContext(r.Context()); ok {
			w.Header().Set("X-Operator", claims.Name)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		path       string
		header     func(t *testing.T) string
		wantStatus int
		wantOp     string
	}{
		{
			name:       "sem segredo a api fica aberta",
			secret:     "",
			path:       "/v1/campaigns",
			header:     func(t *testing.T) string { return "" },
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "healthcheck é público",
			secret:     secret,
			path:       "/healthcheck",
			header:     func(t *testing.T) string { return "" },
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "sem header",
			secret:     secret,
			path:       "/v1/campaigns",
			header:     func(t *testing.T) string { return "" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "sem prefixo bearer",
			secret:     secret,
			path:       "/v1/campaigns",
			header:     func(t *testing.T) string { return signToken(t, secret, time.Now().Add(time.Hour)) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "token válido",
			secret: secret,
			path:   "/v1/campaigns",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, secret, time.Now().Add(time.Hour))
			},
			wantStatus: http.StatusNoContent,
			wantOp:     "ops",
		},
		{
			name:   "assinatura errada",
			secret: secret,
			path:   "/v1/campaigns",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, "other", time.Now().Add(time.Hour))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "token expirado",
			secret: secret,
			path:   "/v1/campaigns",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, secret, time.Now().Add(-time.Hour))
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if h := tt.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(tt.secret)(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOp, rec.Header().Get("X-Operator"))
		})
	}
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"http://localhost:3000"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/v1/campaigns", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/campaigns", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	assert.True(t, isOriginAllowed([]string{"*"}, "https://any.example.com"))
}

func TestLoggingMiddleware_PropagatesCorrelationID(t *testing.T) {
	var seen string
	handler := LoggingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = log.GetCorrelationID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(log.HeaderCorrelationID, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(log.HeaderCorrelationID))
}

func TestLogPanicMiddleware(t *testing.T) {
	handler := LogPanicMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "SRV_001")
}
