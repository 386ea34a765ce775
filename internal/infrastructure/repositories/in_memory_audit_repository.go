package repositories

import (
	"sync"
	"time"

	"video-service/internal/domain/entities"

	"github.com/google/uuid"
)

// InMemoryAuditRepository pairs with InMemoryVideoRepository in embedded mode.
type InMemoryAuditRepository struct {
	mu      sync.RWMutex
	entries []entities.AdminAuditEntry
}

func NewInMemoryAuditRepository() *InMemoryAuditRepository {
	return &InMemoryAuditRepository{}
}

func (r *InMemoryAuditRepository) Record(entry *entities.AdminAuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

// List returns the newest entries first.
func (r *InMemoryAuditRepository) List(limit int) ([]entities.AdminAuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entities.AdminAuditEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
