package domain

import "time"

type EntityType string

const (
	EntityCampaign      EntityType = "campaign"
	EntityContent       EntityType = "content"
	EntityScheduleEntry EntityType = "schedule_entry"
)

type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// ChangeEvent is emitted by the store for every committed mutation, in commit
// order. Before and After hold clones of the entity (*Campaign, *Content or
// *ScheduleEntry); Before is nil on create and After is nil on delete.
type ChangeEvent struct {
	Sequence   uint64     `json:"sequence"`
	EntityType EntityType `json:"entityType"`
	EntityID   string     `json:"entityId"`
	Kind       ChangeKind `json:"kind"`
	Before     any        `json:"before,omitempty"`
	After      any        `json:"after,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}

// ContentStates returns the typed before/after content of a content event.
func (e ChangeEvent) ContentStates() (before, after *Content) {
	before, _ = e.Before.(*Content)
	after, _ = e.After.(*Content)
	return before, after
}
