package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionTurn is one role-tagged message inside a conversation session.
// SessionId is an opaque caller-supplied key, not a foreign key.
type SessionTurn struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId string
	Role      string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
