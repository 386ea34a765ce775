package repositories

import (
	"video-service/internal/domain/entities"

	"github.com/google/uuid"
)

// VideoRepository is the storage accessor for VideoAsset records. All writes
// are scoped by asset id; there is no cross-asset locking.
type VideoRepository interface {
	Create(asset *entities.VideoAsset) error
	GetByID(id uuid.UUID) (*entities.VideoAsset, error)
	Update(asset *entities.VideoAsset) error
	UpdateStatus(id uuid.UUID, status, errorMessage string) error
	Delete(id uuid.UUID) error
	ListByOwner(ownerID string) ([]entities.VideoAsset, error)
	// ListOrphans returns assets whose owner reference was lost, e.g. via a
	// faulty administrative bulk update. Needed by the repair operation.
	ListOrphans() ([]entities.VideoAsset, error)
	AssignOwner(ids []uuid.UUID, ownerID string) (int64, error)
}

type AuditRepository interface {
	Record(entry *entities.AdminAuditEntry) error
	List(limit int) ([]entities.AdminAuditEntry, error)
}
