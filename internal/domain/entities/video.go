package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoAsset is the only entity with lifecycle complexity: it is created at
// upload time with status=processing and mutated by the ingestion pipeline
// until it settles on ready or error.
type VideoAsset struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID      string    `gorm:"type:varchar(255);not null;index"`
	Title        string    `gorm:"type:varchar(255)"`
	Description  string    `gorm:"type:text"`
	Language     string    `gorm:"type:varchar(10)"`
	OriginalName string    `gorm:"type:varchar(255)"`

	// SourcePath is empty for externally hosted videos; ExternalURL is set
	// instead and the asset skips local transcoding entirely.
	SourcePath  string `gorm:"type:varchar(500)"`
	ExternalURL string `gorm:"type:varchar(500)"`
	Checksum    string `gorm:"type:varchar(64)"`

	ManifestPath  string `gorm:"type:varchar(500)"`
	ThumbnailPath string `gorm:"type:varchar(500)"`

	DurationSeconds *float64
	TrimStart       *float64
	TrimEnd         *float64

	Status       string `gorm:"type:varchar(20);not null;index"`
	ErrorMessage string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (v *VideoAsset) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}

// External reports whether the asset references a hosted URL instead of an
// uploaded file.
func (v *VideoAsset) External() bool {
	return v.ExternalURL != "" && v.SourcePath == ""
}
