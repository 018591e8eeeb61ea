package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS change_events (
		sequence     BIGINT PRIMARY KEY,
		entity_type  VARCHAR(32) NOT NULL,
		entity_id    VARCHAR(64) NOT NULL,
		kind         VARCHAR(16) NOT NULL,
		before_state JSONB,
		after_state  JSONB,
		occurred_at  TIMESTAMPTZ NOT NULL,
		recorded_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_change_events_entity ON change_events (entity_type, entity_id)`,
}
