package audit

import (
	"context"
	"encoding/json"
	"time"

	"go-staffing/internal/events"
	"go-staffing/internal/messaging/kafka"
	"go-staffing/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder appends audit entries for every tracked mutation. All methods are
// best-effort: a failed write is logged and swallowed so the triggering
// business operation never fails or rolls back because of the audit trail.
// Callers must invoke it only after their own transaction has committed, so a
// ledger entry is never observable before the entity write it describes.
//
//go:generate mockgen -source=recorder.go -destination=mock/recorder_mock.go -package=mock
type Recorder interface {
	RecordCreate(ctx context.Context, actorID, resourceType, resourceID string, after map[string]any, details string)
	RecordUpdate(ctx context.Context, actorID, resourceType, resourceID string, before, after map[string]any, details string)
	RecordDelete(ctx context.Context, actorID, resourceType, resourceID string, before map[string]any, details string)
	RecordEvent(ctx context.Context, actorID string, action Action, details string)
}

type recorder struct {
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

// NewRecorder builds the production recorder. The outbox repository is
// optional; without it entries are only written to the ledger table.
func NewRecorder(repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Recorder {
	l := zap.L().Named("audit.recorder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.recorder")
	}
	return &recorder{repo: repo, outbox: outbox, logger: l}
}

func (r *recorder) RecordCreate(ctx context.Context, actorID, resourceType, resourceID string, after map[string]any, details string) {
	r.record(ctx, actorID, ActionCreate, resourceType, resourceID, nil, after, details)
}

func (r *recorder) RecordUpdate(ctx context.Context, actorID, resourceType, resourceID string, before, after map[string]any, details string) {
	r.record(ctx, actorID, ActionUpdate, resourceType, resourceID, before, after, details)
}

func (r *recorder) RecordDelete(ctx context.Context, actorID, resourceType, resourceID string, before map[string]any, details string) {
	r.record(ctx, actorID, ActionDelete, resourceType, resourceID, before, nil, details)
}

// RecordEvent covers the non-entity actions (LOGIN, ACCESS_DENIED, ...) which
// carry no before/after diff, only details.
func (r *recorder) RecordEvent(ctx context.Context, actorID string, action Action, details string) {
	r.record(ctx, actorID, action, "", "", nil, nil, details)
}

func (r *recorder) record(ctx context.Context, actorID string, action Action, resourceType, resourceID string, before, after map[string]any, details string) {
	record := &Record{
		ID:           uuid.New(),
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}

	clientInfo := contextutil.GetClientInfo(ctx)
	record.SourceIP = clientInfo.SourceIP
	record.UserAgent = clientInfo.UserAgent

	if before != nil || after != nil {
		changes := ComputeDiff(Sanitize(before), Sanitize(after))
		raw, err := json.Marshal(changes)
		if err != nil {
			r.logger.Error("marshal audit changes failed",
				zap.String("resource_type", resourceType),
				zap.String("resource_id", resourceID),
				zap.Error(err),
			)
			return
		}
		record.Changes = raw
	}

	if err := r.repo.Create(ctx, record); err != nil {
		r.logger.Error("append audit record failed",
			zap.String("action", string(action)),
			zap.String("resource_type", resourceType),
			zap.String("resource_id", resourceID),
			zap.Error(err),
		)
		return
	}

	r.enqueueOutbox(ctx, record)
}

func (r *recorder) enqueueOutbox(ctx context.Context, record *Record) {
	if r.outbox == nil {
		return
	}

	payload, err := json.Marshal(events.AuditRecordedEvent{
		EventType:    "audit.recorded",
		RecordID:     record.ID.String(),
		Action:       string(record.Action),
		ResourceType: record.ResourceType,
		ResourceID:   record.ResourceID,
		ActorID:      record.ActorID,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		r.logger.Error("marshal audit event failed", zap.Error(err))
		return
	}

	err = r.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "audit_record",
		AggregateID:   record.ID.String(),
		EventType:     "audit.recorded",
		Topic:         events.AuditRecordedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		r.logger.Error("enqueue audit outbox event failed",
			zap.String("record_id", record.ID.String()),
			zap.Error(err),
		)
	}
}

// NopRecorder discards every entry. Used in tests and in tools that must not
// write audit rows.
type NopRecorder struct{}

func NewNopRecorder() *NopRecorder { return &NopRecorder{} }

func (*NopRecorder) RecordCreate(context.Context, string, string, string, map[string]any, string) {}
func (*NopRecorder) RecordUpdate(context.Context, string, string, string, map[string]any, map[string]any, string) {
}
func (*NopRecorder) RecordDelete(context.Context, string, string, string, map[string]any, string) {}
func (*NopRecorder) RecordEvent(context.Context, string, Action, string)                          {}
