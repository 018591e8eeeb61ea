package domain

import "time"

type DispatchStatus string

const (
	DispatchStatusPending    DispatchStatus = "pending"
	DispatchStatusDispatched DispatchStatus = "dispatched"
	DispatchStatusFailed     DispatchStatus = "failed"
)

// ScheduleEntry é o horário de entrega do par (conteúdo, canal). Existe no
// máximo uma entrada por par; reagendar sobrescreve ScheduledAt e incrementa Revision.
type ScheduleEntry struct {
	ID             string         `json:"id"`
	ContentID      string         `json:"contentId"`
	Channel        Channel        `json:"channel"`
	ScheduledAt    time.Time      `json:"scheduledAt"`
	DispatchStatus DispatchStatus `json:"dispatchStatus"`
	Attempts       int            `json:"attempts"`
	Terminal       bool           `json:"terminal"`
	LastError      string         `json:"lastError,omitempty"`
	ExternalID     string         `json:"externalId,omitempty"`
	DispatchedAt   *time.Time     `json:"dispatchedAt,omitempty"`
	Revision       int            `json:"revision"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Due indica se a varredura deve tentar despachar a entrada em now
func (e *ScheduleEntry) Due(now time.Time) bool {
	if e.ScheduledAt.After(now) {
		return false
	}
	switch e.DispatchStatus {
	case DispatchStatusPending:
		return true
	case DispatchStatusFailed:
		return !e.Terminal
	}
	return false
}

func (e *ScheduleEntry) Clone() *ScheduleEntry {
	if e == nil {
		return nil
	}
	clone := *e
	clone.DispatchedAt = cloneTime(e.DispatchedAt)
	return &clone
}

// ScheduleItem é um item do pedido de agendamento em lote
type ScheduleItem struct {
	ContentID   string    `json:"contentId"`
	Channel     Channel   `json:"platform"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

// DispatchJob é a cópia de uma entrada vencida e do seu conteúdo, feita sob o
// lock do store e despachada fora dele
type DispatchJob struct {
	Entry   ScheduleEntry
	Content Content
}

// DispatchOutcome é o que a varredura registra de volta para um job
type DispatchOutcome struct {
	Success    bool
	ExternalID string
	Err        error
	Permanent  bool
}

// CommitResult descreve o efeito do registro de um despacho
type CommitResult string

const (
	CommitDispatched CommitResult = "dispatched"
	CommitRetrying   CommitResult = "retrying"
	CommitExhausted  CommitResult = "exhausted"
	CommitDuplicate  CommitResult = "duplicate"
	CommitStale      CommitResult = "stale"
)

// SweepReport resume uma varredura. Exhausted são as entradas que chegaram ao
// estado failed terminal nesta varredura e não serão repetidas.
type SweepReport struct {
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
	Due        int             `json:"due"`
	Dispatched []ScheduleEntry `json:"dispatched"`
	Retrying   []ScheduleEntry `json:"retrying"`
	Exhausted  []ScheduleEntry `json:"exhausted"`
	Stale      int             `json:"stale"`
}

// DispatchNotification é publicada para cada resultado de despacho registrado
type DispatchNotification struct {
	EntryID    string         `json:"entryId"`
	ContentID  string         `json:"contentId"`
	Channel    Channel        `json:"channel"`
	Result     CommitResult   `json:"result"`
	Status     DispatchStatus `json:"status"`
	Attempts   int            `json:"attempts"`
	ExternalID string         `json:"externalId,omitempty"`
	Error      string         `json:"error,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}
