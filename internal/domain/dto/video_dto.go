package dto

import "time"

type UploadVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
	ExternalURL string `json:"external_url,omitempty"`
}

type UploadVideoResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type VideoResponse struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Language        string     `json:"language,omitempty"`
	OriginalName    string     `json:"original_name,omitempty"`
	ExternalURL     string     `json:"external_url,omitempty"`
	ManifestPath    string     `json:"manifest_path,omitempty"`
	ThumbnailPath   string     `json:"thumbnail_path,omitempty"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty"`
	TrimStart       *float64   `json:"trim_start,omitempty"`
	TrimEnd         *float64   `json:"trim_end,omitempty"`
	Status          string     `json:"status"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type TrimRequest struct {
	TrimStart *float64 `json:"trim_start"`
	TrimEnd   *float64 `json:"trim_end"`
	Reprocess bool     `json:"reprocess"`
}

type StatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
