package repositories

import (
	"fmt"
	"sync"
	"time"

	"video-service/internal/domain/entities"

	"github.com/google/uuid"
)

// InMemoryVideoRepository backs tests and the embedded (no-postgres) mode.
type InMemoryVideoRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]*entities.VideoAsset
}

func NewInMemoryVideoRepository() *InMemoryVideoRepository {
	return &InMemoryVideoRepository{
		data: make(map[uuid.UUID]*entities.VideoAsset),
	}
}

func (r *InMemoryVideoRepository) Create(asset *entities.VideoAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if asset.OwnerID == "" {
		return fmt.Errorf("refusing to create asset without owner")
	}
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	now := time.Now()
	asset.CreatedAt = now
	asset.UpdatedAt = now
	cp := *asset
	r.data[asset.ID] = &cp
	return nil
}

func (r *InMemoryVideoRepository) GetByID(id uuid.UUID) (*entities.VideoAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	asset, ok := r.data[id]
	if !ok {
		return nil, ErrAssetNotFound
	}
	cp := *asset
	return &cp, nil
}

func (r *InMemoryVideoRepository) Update(asset *entities.VideoAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if asset.OwnerID == "" {
		return fmt.Errorf("refusing to update asset %s to an empty owner", asset.ID)
	}
	if _, ok := r.data[asset.ID]; !ok {
		return ErrAssetNotFound
	}
	asset.UpdatedAt = time.Now()
	cp := *asset
	r.data[asset.ID] = &cp
	return nil
}

func (r *InMemoryVideoRepository) UpdateStatus(id uuid.UUID, status, errorMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	asset, ok := r.data[id]
	if !ok {
		return ErrAssetNotFound
	}
	asset.Status = status
	asset.ErrorMessage = errorMessage
	asset.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryVideoRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrAssetNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *InMemoryVideoRepository) ListByOwner(ownerID string) ([]entities.VideoAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var assets []entities.VideoAsset
	for _, a := range r.data {
		if a.OwnerID == ownerID {
			assets = append(assets, *a)
		}
	}
	return assets, nil
}

func (r *InMemoryVideoRepository) ListOrphans() ([]entities.VideoAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var assets []entities.VideoAsset
	for _, a := range r.data {
		if a.OwnerID == "" {
			assets = append(assets, *a)
		}
	}
	return assets, nil
}

func (r *InMemoryVideoRepository) AssignOwner(ids []uuid.UUID, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ownerID == "" {
		return 0, fmt.Errorf("fallback owner cannot be empty")
	}
	var n int64
	for _, id := range ids {
		if a, ok := r.data[id]; ok && a.OwnerID == "" {
			a.OwnerID = ownerID
			a.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

// SeedOrphan inserts a record with no owner, bypassing the create-time
// invariant. Test helper for the repair path.
func (r *InMemoryVideoRepository) SeedOrphan(asset *entities.VideoAsset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	cp := *asset
	r.data[asset.ID] = &cp
}
