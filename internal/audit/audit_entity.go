package audit

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreate        Action = "CREATE"
	ActionUpdate        Action = "UPDATE"
	ActionDelete        Action = "DELETE"
	ActionLogin         Action = "LOGIN"
	ActionLogout        Action = "LOGOUT"
	ActionRegister      Action = "REGISTER"
	ActionPasswordReset Action = "PASSWORD_RESET"
	ActionAccessDenied  Action = "ACCESS_DENIED"
	ActionSystem        Action = "SYSTEM_ACTION"
)

// Record is an append-only ledger entry. Rows are only ever inserted; the
// repository deliberately exposes no update or delete.
type Record struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ActorID      string    `gorm:"type:varchar(64);not null;index:idx_audit_records_actor"`
	Action       Action    `gorm:"type:varchar(30);not null;index:idx_audit_records_action"`
	ResourceType string    `gorm:"type:varchar(60);index:idx_audit_records_resource"`
	ResourceID   string    `gorm:"type:varchar(64);index:idx_audit_records_resource"`
	Changes      []byte    `gorm:"type:jsonb"`
	Details      string    `gorm:"type:text"`
	SourceIP     string    `gorm:"type:varchar(45)"`
	UserAgent    string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"index:idx_audit_records_created_at,sort:desc"`
}

func (Record) TableName() string {
	return "audit_records"
}
