package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-hub-api/internal/config"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	headerAPIKey    = "X-API-KEY"
	maxErrorPayload = 512
)

// PublishRequest é o payload enviado ao workflow de publicação
type PublishRequest struct {
	Platform    domain.Channel     `json:"platform"`
	ContentID   string             `json:"contentId"`
	CampaignID  *string            `json:"campaignId"`
	Type        domain.ContentType `json:"type"`
	Title       string             `json:"title"`
	Body        string             `json:"body"`
	ScheduledAt *time.Time         `json:"scheduledAt,omitempty"`
}

// publishResponse aceita o corpo devolvido pelo workflow. Success ausente
// significa sucesso: só "success": false explícito é falha.
type publishResponse struct {
	Success    *bool  `json:"success"`
	ExternalID string `json:"externalId"`
	Error      string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Client publica conteúdo através dos webhooks do motor de workflow
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	publishPath string
	healthPath  string
}

func NewClient(cfg config.Gateway) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		publishPath: cfg.PublishPath,
		healthPath:  cfg.HealthPath,
	}
}

func (c *Client) endpoint(p string) (string, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return "", errors.Wrap(err, "erro ao analisar a URL base do gateway")
	}
	endpoint.Path = path.Join(endpoint.Path, p)
	return endpoint.String(), nil
}

func (c *Client) newRequest(ctx context.Context, method, p string, body []byte) (*http.Request, error) {
	endpoint, err := c.endpoint(p)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a requisição")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(headerAPIKey, c.apiKey)
	}
	return req, nil
}

// Publish entrega o conteúdo ao canal. Respostas 4xx (exceto 408 e 429) são
// falhas permanentes; rede, timeout e 5xx podem ser repetidos.
func (c *Client) Publish(ctx context.Context, channel domain.Channel, content domain.Content) (*domain.PublishResult, error) {
	payload, err := json.Marshal(PublishRequest{
		Platform:    channel,
		ContentID:   content.ID,
		CampaignID:  content.CampaignID,
		Type:        content.Type,
		Title:       content.Title,
		Body:        content.Body,
		ScheduledAt: content.ScheduledAt,
	})
	if err != nil {
		return nil, &domain.GatewayError{Channel: channel, Permanent: true, Err: errors.Wrap(err, "erro ao codificar o payload")}
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.publishPath, payload)
	if err != nil {
		return nil, &domain.GatewayError{Channel: channel, Permanent: true, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.GatewayError{Channel: channel, Err: errors.Wrap(err, "erro ao executar a requisição")}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.GatewayError{Channel: channel, Err: errors.Wrap(err, "erro ao ler a resposta")}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"channel":     channel,
			"content_id":  content.ID,
			"status_code": resp.StatusCode,
		}).Warn("Gateway recusou a publicação")

		return nil, &domain.GatewayError{
			Channel:   channel,
			Permanent: isPermanentStatus(resp.StatusCode),
			Err:       fmt.Errorf("requisição falhou com status %s: %s", resp.Status, truncate(raw)),
		}
	}

	return decodePublishResponse(channel, content.ID, raw), nil
}

// decodePublishResponse interpreta um corpo 2xx. Corpo vazio, sem o campo
// success ou fora do formato esperado conta como entregue.
func decodePublishResponse(channel domain.Channel, contentID string, raw []byte) *domain.PublishResult {
	if len(bytes.TrimSpace(raw)) == 0 {
		return &domain.PublishResult{Success: true}
	}

	var body publishResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		logrus.WithFields(logrus.Fields{
			"channel":    channel,
			"content_id": contentID,
			"body":       truncate(raw),
		}).Debug("Resposta do gateway fora do formato esperado, considerando entregue")
		return &domain.PublishResult{Success: true}
	}

	if body.Success != nil && !*body.Success {
		return &domain.PublishResult{Success: false, Error: body.Error}
	}

	return &domain.PublishResult{Success: true, ExternalID: body.ExternalID}
}

// CheckHealth consulta o webhook de saúde do motor de workflow
func (c *Client) CheckHealth(ctx context.Context) (*domain.HealthStatus, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.healthPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao executar a requisição")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler a resposta")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("gateway respondeu %s", resp.Status),
		}, nil
	}

	message := "ok"
	var body healthResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Message != "":
			message = body.Message
		case body.Status != "":
			message = body.Status
		}
	}

	return &domain.HealthStatus{Healthy: true, Message: message}, nil
}

func isPermanentStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return false
	}
	return code >= 400 && code < 500
}

func truncate(raw []byte) string {
	if len(raw) > maxErrorPayload {
		return string(raw[:maxErrorPayload]) + "..."
	}
	return string(raw)
}
