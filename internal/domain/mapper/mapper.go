package mapper

import (
	"video-service/internal/domain/dto"
	"video-service/internal/domain/entities"
)

func ToVideoResponse(asset *entities.VideoAsset) dto.VideoResponse {
	return dto.VideoResponse{
		ID:              asset.ID.String(),
		OwnerID:         asset.OwnerID,
		Title:           asset.Title,
		Description:     asset.Description,
		Language:        asset.Language,
		OriginalName:    asset.OriginalName,
		ExternalURL:     asset.ExternalURL,
		ManifestPath:    asset.ManifestPath,
		ThumbnailPath:   asset.ThumbnailPath,
		DurationSeconds: asset.DurationSeconds,
		TrimStart:       asset.TrimStart,
		TrimEnd:         asset.TrimEnd,
		Status:          asset.Status,
		ErrorMessage:    asset.ErrorMessage,
		CreatedAt:       asset.CreatedAt,
		UpdatedAt:       asset.UpdatedAt,
	}
}

func ToVideoResponses(assets []entities.VideoAsset) []dto.VideoResponse {
	out := make([]dto.VideoResponse, 0, len(assets))
	for i := range assets {
		out = append(out, ToVideoResponse(&assets[i]))
	}
	return out
}
