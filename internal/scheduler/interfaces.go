package scheduler

import (
	"context"
	"time"

	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

// ChannelGateway entrega conteúdo a um canal externo
type ChannelGateway interface {
	// Publish delivers content to channel. A non-success result or an error is
	// retryable unless it carries a permanent domain.GatewayError.
	Publish(ctx context.Context, channel domain.Channel, content domain.Content) (*domain.PublishResult, error)

	// CheckHealth reports whether the gateway is reachable
	CheckHealth(ctx context.Context) (*domain.HealthStatus, error)
}

// Notifier publica o resultado de cada despacho
type Notifier interface {
	Notify(ctx context.Context, notification domain.DispatchNotification) error
}

// ScheduleStore is the part of the entity store the engine writes through.
type ScheduleStore interface {
	UpsertScheduleEntry(contentID string, channel domain.Channel, at time.Time) (*domain.ScheduleEntry, error)
	RemoveScheduleEntry(contentID string, channel domain.Channel) error
	ListScheduleEntries(contentID string) []*domain.ScheduleEntry
	DueEntries(now time.Time) []domain.DispatchJob
	CommitDispatch(entryID string, revision int, outcome domain.DispatchOutcome, maxAttempts int) (*domain.ScheduleEntry, domain.CommitResult, error)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, domain.DispatchNotification) error { return nil }
