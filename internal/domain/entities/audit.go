package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminAuditEntry records every administrative mutation (owner repair and the
// like) so maintenance operations stay auditable.
type AdminAuditEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Actor     string    `gorm:"type:varchar(255);not null"`
	Action    string    `gorm:"type:varchar(100);not null"`
	Affected  int
	Detail    string `gorm:"type:text"`
	CreatedAt time.Time
}

func (a *AdminAuditEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
