package repositories

import (
	"video-service/internal/domain/entities"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(entry *entities.AdminAuditEntry) error {
	return r.db.Create(entry).Error
}

func (r *AuditRepository) List(limit int) ([]entities.AdminAuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []entities.AdminAuditEntry
	err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
