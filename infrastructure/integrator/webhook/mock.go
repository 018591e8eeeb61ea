package webhook

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

// MockGateway simula o motor de workflow em execução local (GATEWAY_MOCK_MODE).
// Toda publicação é aceita.
type MockGateway struct {
	published atomic.Int64
}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Publish(ctx context.Context, channel domain.Channel, content domain.Content) (*domain.PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.GatewayError{Channel: channel, Err: err}
	}

	n := m.published.Add(1)

	logrus.WithFields(logrus.Fields{
		"channel":    channel,
		"content_id": content.ID,
	}).Debug("Publicação simulada")

	return &domain.PublishResult{
		Success:    true,
		ExternalID: fmt.Sprintf("mock-%s-%d", channel, n),
	}, nil
}

func (m *MockGateway) CheckHealth(context.Context) (*domain.HealthStatus, error) {
	return &domain.HealthStatus{Healthy: true, Message: "mock mode"}, nil
}

// Published conta as publicações simuladas
func (m *MockGateway) Published() int64 {
	return m.published.Load()
}
