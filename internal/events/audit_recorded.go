package events

import "time"

const AuditRecordedTopic = "staffing.audit.v1"

type AuditRecordedEvent struct {
	EventType    string    `json:"event_type"`
	RecordID     string    `json:"record_id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	ActorID      string    `json:"actor_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}
