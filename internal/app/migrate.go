package app

import (
	"go-staffing/internal/assignment"
	"go-staffing/internal/audit"
	"go-staffing/internal/directory"
	"go-staffing/internal/schedule"

	"gorm.io/gorm"
)

// outboxDDL is raw SQL because the outbox repository bypasses gorm.
const outboxDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	request_id VARCHAR(64),
	aggregate_type VARCHAR(60) NOT NULL,
	aggregate_id UUID NOT NULL,
	event_type VARCHAR(60) NOT NULL,
	topic VARCHAR(120) NOT NULL,
	payload JSONB NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	retry_count INT NOT NULL DEFAULT 0,
	error_message VARCHAR(500),
	next_retry_at TIMESTAMPTZ,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created
	ON outbox_events (status, created_at);
`

// overlapConstraintDDL closes the check-then-insert race at the database: two
// blocking schedules for the same employee cannot share a day, boundaries
// inclusive, even under concurrent commits. 23P01 violations are mapped back
// to the conflict error by the schedule repository.
const overlapConstraintDDL = `
CREATE EXTENSION IF NOT EXISTS btree_gist;
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'schedules_no_blocking_overlap'
	) THEN
		ALTER TABLE schedules ADD CONSTRAINT schedules_no_blocking_overlap
			EXCLUDE USING gist (
				employee_id WITH =,
				daterange(start_date, end_date, '[]') WITH &&
			)
			WHERE (status IN ('planned', 'confirmed', 'active'));
	END IF;
END $$;
`

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&directory.Employee{},
		&directory.Client{},
		&schedule.Schedule{},
		&assignment.Assignment{},
		&audit.Record{},
	); err != nil {
		return err
	}

	if err := db.Exec(outboxDDL).Error; err != nil {
		return err
	}

	return db.Exec(overlapConstraintDDL).Error
}
