package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventAction string

const (
	ActionCreate  EventAction = "create"
	ActionUpdate  EventAction = "update"
	ActionDelete  EventAction = "delete"
	ActionConsume EventAction = "consume"
	ActionAdjust  EventAction = "adjust"
	ActionAdvance EventAction = "advance"
)

// Event is one entry in the mutation audit trail: who-less (single-user
// system) but otherwise the classic what/when/which-resource record.
type Event struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	Action       EventAction `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string      `gorm:"column:resource_id;type:varchar(50);index"`

	Details string `gorm:"column:details;type:jsonb"`
}

func (Event) TableName() string {
	return "audit.events"
}
