package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/campaign-hub-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const changeEventsTable = "change_events"

var changeEventColumns = []string{
	"sequence",
	"entity_type",
	"entity_id",
	"kind",
	"before_state",
	"after_state",
	"occurred_at",
}

type ChangeEventRepository interface {
	SaveBatch(ctx context.Context, events []domain.ChangeEvent) error
	LastSequence(ctx context.Context) (uint64, error)
	ListSince(ctx context.Context, after uint64, limit uint64) ([]domain.ChangeEvent, error)
}

type changeEventRepository struct {
	conn postgres.Queryer
}

func NewChangeEventRepository(conn postgres.Queryer) ChangeEventRepository {
	return &changeEventRepository{
		conn: conn,
	}
}

// SaveBatch grava os eventos em um único INSERT; sequências já gravadas são ignoradas
func (r *changeEventRepository) SaveBatch(ctx context.Context, events []domain.ChangeEvent) error {
	if len(events) == 0 {
		return nil
	}

	sqlQuery, args, err := buildInsertChangeEvents(events)
	if err != nil {
		return err
	}

	if _, err := r.conn.ExecContext(ctx, sqlQuery, args...); err != nil {
		return errors.Wrapf(err, "erro ao gravar %d eventos", len(events))
	}

	return nil
}

func (r *changeEventRepository) LastSequence(ctx context.Context) (uint64, error) {
	sqlQuery, args, err := squirrel.
		Select("COALESCE(MAX(sequence), 0)").
		From(changeEventsTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var last uint64
	if err := r.conn.QueryRowContext(ctx, sqlQuery, args...).Scan(&last); err != nil {
		return 0, errors.Wrap(err, "erro ao consultar a última sequência")
	}

	return last, nil
}

// ListSince devolve os eventos com sequência maior que after, em ordem de commit.
// Before e After voltam como JSON cru.
func (r *changeEventRepository) ListSince(ctx context.Context, after uint64, limit uint64) ([]domain.ChangeEvent, error) {
	sqlQuery, args, err := buildListChangeEvents(after, limit)
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar eventos")
	}
	defer rows.Close()

	events := make([]domain.ChangeEvent, 0)
	for rows.Next() {
		var (
			event      domain.ChangeEvent
			before     sql.NullString
			afterState sql.NullString
			occurredAt time.Time
		)

		if err := rows.Scan(
			&event.Sequence,
			&event.EntityType,
			&event.EntityID,
			&event.Kind,
			&before,
			&afterState,
			&occurredAt,
		); err != nil {
			return nil, errors.Wrap(err, "erro ao ler evento")
		}

		if before.Valid {
			event.Before = jsoniter.RawMessage(before.String)
		}
		if afterState.Valid {
			event.After = jsoniter.RawMessage(afterState.String)
		}
		event.OccurredAt = occurredAt.UTC()

		events = append(events, event)
	}

	return events, rows.Err()
}

func buildInsertChangeEvents(events []domain.ChangeEvent) (string, []any, error) {
	query := squirrel.
		Insert(changeEventsTable).
		Columns(changeEventColumns...)

	for _, event := range events {
		before, err := marshalState(event.Before)
		if err != nil {
			return "", nil, errors.Wrapf(err, "erro ao serializar estado anterior do evento %d", event.Sequence)
		}
		after, err := marshalState(event.After)
		if err != nil {
			return "", nil, errors.Wrapf(err, "erro ao serializar estado posterior do evento %d", event.Sequence)
		}

		query = query.Values(
			event.Sequence,
			event.EntityType,
			event.EntityID,
			event.Kind,
			before,
			after,
			event.OccurredAt,
		)
	}

	return query.
		Suffix("ON CONFLICT (sequence) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func buildListChangeEvents(after uint64, limit uint64) (string, []any, error) {
	query := squirrel.
		Select(changeEventColumns...).
		From(changeEventsTable).
		Where(squirrel.Gt{"sequence": after}).
		OrderBy("sequence ASC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		query = query.Limit(limit)
	}

	return query.ToSql()
}

// marshalState serializa o estado da entidade; ausência vira NULL
func marshalState(state any) (any, error) {
	if state == nil {
		return nil, nil
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}
