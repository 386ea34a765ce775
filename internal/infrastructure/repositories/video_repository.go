package repositories

import (
	"errors"
	"fmt"
	"time"

	"video-service/internal/domain/entities"
	"video-service/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAssetNotFound = errors.New("video asset not found")

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts the asset. Owner must never be empty post-creation: the
// write is rejected here rather than permitted and repaired later.
func (r *VideoRepository) Create(asset *entities.VideoAsset) error {
	if asset.OwnerID == "" {
		return fmt.Errorf("refusing to create asset without owner")
	}
	return r.db.Create(asset).Error
}

func (r *VideoRepository) GetByID(id uuid.UUID) (*entities.VideoAsset, error) {
	var asset entities.VideoAsset
	err := r.db.First(&asset, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *VideoRepository) Update(asset *entities.VideoAsset) error {
	if asset.OwnerID == "" {
		return fmt.Errorf("refusing to update asset %s to an empty owner", asset.ID)
	}
	return r.db.Save(asset).Error
}

func (r *VideoRepository) UpdateStatus(id uuid.UUID, status, errorMessage string) error {
	res := r.db.Model(&entities.VideoAsset{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"error_message": errorMessage,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (r *VideoRepository) Delete(id uuid.UUID) error {
	res := r.db.Delete(&entities.VideoAsset{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (r *VideoRepository) ListByOwner(ownerID string) ([]entities.VideoAsset, error) {
	var assets []entities.VideoAsset
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&assets).Error
	return assets, err
}

// ListOrphans finds legacy rows whose owner reference was lost. New writes
// cannot produce these, but imported data can.
func (r *VideoRepository) ListOrphans() ([]entities.VideoAsset, error) {
	var assets []entities.VideoAsset
	err := r.db.Where("owner_id IS NULL OR owner_id = ''").Find(&assets).Error
	return assets, err
}

func (r *VideoRepository) AssignOwner(ids []uuid.UUID, ownerID string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if ownerID == "" {
		return 0, fmt.Errorf("fallback owner cannot be empty")
	}
	res := r.db.Model(&entities.VideoAsset{}).
		Where("id IN ?", ids).
		Where("owner_id IS NULL OR owner_id = ''").
		Updates(map[string]interface{}{
			"owner_id":   ownerID,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

// ListStuck returns assets sitting in processing longer than maxAge, for
// the operator-facing health report.
func (r *VideoRepository) ListStuck(maxAge time.Duration) ([]entities.VideoAsset, error) {
	var assets []entities.VideoAsset
	cutoff := time.Now().Add(-maxAge)
	err := r.db.Where("status = ? AND updated_at < ?", constants.StatusProcessing, cutoff).Find(&assets).Error
	return assets, err
}
