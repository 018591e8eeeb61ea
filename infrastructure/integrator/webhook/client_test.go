package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-hub-api/internal/config"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.Gateway{
		BaseURL:     serverURL,
		APIKey:      "secret-key",
		PublishPath: "/webhook/publish",
		HealthPath:  "/webhook/health",
		HTTPTimeout: time.Second,
	})
}

func testContent() domain.Content {
	campaignID := "cmp-1"
	return domain.Content{
		ID:         "cnt-1",
		CampaignID: &campaignID,
		Type:       domain.ContentTypePost,
		Title:      "Launch",
		Body:       "We are live",
		Channels:   []domain.Channel{domain.ChannelLinkedIn},
	}
}

func TestClient_PublishSendsPayload(t *testing.T) {
	var received PublishRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/webhook/publish", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("X-API-KEY"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(raw, &received))

		w.Write([]byte(`{"success":true,"externalId":"urn:li:share:1"}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Publish(context.Background(), domain.ChannelLinkedIn, testContent())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "urn:li:share:1", result.ExternalID)
	assert.Equal(t, domain.ChannelLinkedIn, received.Platform)
	assert.Equal(t, "cnt-1", received.ContentID)
	require.NotNil(t, received.CampaignID)
	assert.Equal(t, "cmp-1", *received.CampaignID)
}

func TestClient_PublishErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantPermanent bool
	}{
		{
			name:          "4xx é permanente",
			status:        http.StatusUnprocessableEntity,
			body:          `{"error":"invalid platform"}`,
			wantPermanent: true,
		},
		{
			name:   "429 pode ser repetido",
			status: http.StatusTooManyRequests,
		},
		{
			name:   "5xx pode ser repetido",
			status: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			result, err := newTestClient(server.URL).Publish(context.Background(), domain.ChannelTwitter, testContent())
			require.Error(t, err)
			assert.Nil(t, result)

			var gwErr *domain.GatewayError
			require.True(t, errors.As(err, &gwErr))
			assert.Equal(t, domain.ChannelTwitter, gwErr.Channel)
			assert.Equal(t, tt.wantPermanent, domain.IsPermanent(err))
			assert.True(t, errors.Is(err, domain.ErrGateway))
		})
	}
}

func TestClient_PublishSuccessfulResponses(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		body           string
		wantSuccess    bool
		wantExternalID string
		wantError      string
	}{
		{name: "corpo vazio", status: http.StatusAccepted, wantSuccess: true},
		{name: "resposta padrão do workflow", status: http.StatusOK, body: `{"message":"Workflow was started"}`, wantSuccess: true},
		{name: "lista de itens", status: http.StatusOK, body: `[{"id":1}]`, wantSuccess: true},
		{name: "texto simples", status: http.StatusOK, body: `ok`, wantSuccess: true},
		{name: "sucesso com id externo", status: http.StatusOK, body: `{"success":true,"externalId":"tw-9"}`, wantSuccess: true, wantExternalID: "tw-9"},
		{name: "falha explícita", status: http.StatusOK, body: `{"success":false,"error":"rate limited"}`, wantError: "rate limited"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			result, err := newTestClient(server.URL).Publish(context.Background(), domain.ChannelSlack, testContent())
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.wantExternalID, result.ExternalID)
			assert.Equal(t, tt.wantError, result.Error)
		})
	}
}

func TestClient_PublishUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Publish(context.Background(), domain.ChannelSlack, testContent())
	require.Error(t, err)
	assert.False(t, domain.IsPermanent(err))
}

func TestClient_CheckHealth(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantHealthy bool
		wantMessage string
	}{
		{name: "saudável com mensagem", status: http.StatusOK, body: `{"message":"n8n up"}`, wantHealthy: true, wantMessage: "n8n up"},
		{name: "saudável com status", status: http.StatusOK, body: `{"status":"ok"}`, wantHealthy: true, wantMessage: "ok"},
		{name: "saudável sem corpo", status: http.StatusOK, body: ``, wantHealthy: true, wantMessage: "ok"},
		{name: "indisponível", status: http.StatusServiceUnavailable, wantHealthy: false, wantMessage: "gateway respondeu 503 Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/webhook/health", r.URL.Path)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			status, err := newTestClient(server.URL).CheckHealth(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantHealthy, status.Healthy)
			assert.Equal(t, tt.wantMessage, status.Message)
		})
	}
}

func TestMockGateway(t *testing.T) {
	gateway := NewMockGateway()

	result, err := gateway.Publish(context.Background(), domain.ChannelLinkedIn, testContent())
	require.NoError(t, err)
	assert.Equal(t, "mock-linkedin-1", result.ExternalID)
	assert.Equal(t, int64(1), gateway.Published())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gateway.Publish(ctx, domain.ChannelLinkedIn, testContent())
	assert.Error(t, err)

	status, err := gateway.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
}
