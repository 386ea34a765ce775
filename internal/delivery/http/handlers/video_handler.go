package handlers

import (
	"video-service/internal/delivery/http/middleware"
	"video-service/internal/domain/dto"
	"video-service/internal/domain/mapper"
	"video-service/internal/usecases"
	verrors "video-service/pkg/errors"

	"github.com/gofiber/fiber/v2"
)

type VideoHandler struct {
	videos usecases.VideoService
}

func NewVideoHandler(videos usecases.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// Upload
//
// @Summary      Upload a video
// @Description  Accepts a multipart video file or a JSON body with an external URL
// @Tags         Videos
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file   false "Video file"
// @Param        title        formData  string false "Title"
// @Param        description  formData  string false "Description"
// @Param        language     formData  string false "Language code"
// @Success      201  {object}  dto.UploadVideoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /videos [post]
func (h *VideoHandler) Upload(c *fiber.Ctx) error {
	input := usecases.UploadInput{
		OwnerID:     middleware.Owner(c),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Language:    c.FormValue("language"),
	}

	fileHeader, err := c.FormFile("file")
	if err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			return verrors.HandleError(c, verrors.ErrInvalidUpload(err))
		}
		defer f.Close()
		input.Content = f
		input.OriginalName = fileHeader.Filename
	} else {
		// No file part: expect a JSON body referencing a hosted video.
		var req dto.UploadVideoRequest
		if parseErr := c.BodyParser(&req); parseErr != nil || req.ExternalURL == "" {
			return verrors.HandleError(c, verrors.ErrInvalidUpload(err))
		}
		input.ExternalURL = req.ExternalURL
		if req.Title != "" {
			input.Title = req.Title
		}
		input.Description = req.Description
		input.Language = req.Language
	}

	asset, err := h.videos.Upload(c.Context(), input)
	if err != nil {
		return verrors.HandleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UploadVideoResponse{
		ID:     asset.ID.String(),
		Status: asset.Status,
	})
}

// Get
//
// @Summary  Fetch asset metadata
// @Tags     Videos
// @Produce  json
// @Param    id   path      string true "Asset id"
// @Success  200  {object}  dto.VideoResponse
// @Failure  404  {object}  dto.ErrorResponse
// @Router   /videos/{id} [get]
func (h *VideoHandler) Get(c *fiber.Ctx) error {
	asset, err := h.videos.Get(c.Params("id"))
	if err != nil {
		return verrors.HandleError(c, err)
	}
	return c.JSON(mapper.ToVideoResponse(asset))
}

// List returns the requesting owner's assets.
func (h *VideoHandler) List(c *fiber.Ctx) error {
	assets, err := h.videos.ListByOwner(middleware.Owner(c))
	if err != nil {
		return verrors.HandleError(c, err)
	}
	return c.JSON(mapper.ToVideoResponses(assets))
}

// Trim
//
// @Summary  Set trim points
// @Tags     Videos
// @Accept   json
// @Produce  json
// @Param    id       path      string          true "Asset id"
// @Param    request  body      dto.TrimRequest true "Trim window"
// @Success  200      {object}  dto.VideoResponse
// @Router   /videos/{id}/trim [patch]
func (h *VideoHandler) Trim(c *fiber.Ctx) error {
	var req dto.TrimRequest
	if err := c.BodyParser(&req); err != nil {
		return verrors.HandleError(c, verrors.ErrInvalidTrim(err))
	}

	asset, err := h.videos.Trim(c.Context(), c.Params("id"), middleware.Owner(c), &req)
	if err != nil {
		return verrors.HandleError(c, err)
	}
	return c.JSON(mapper.ToVideoResponse(asset))
}

// Retry moves an errored asset back into processing.
func (h *VideoHandler) Retry(c *fiber.Ctx) error {
	asset, err := h.videos.Retry(c.Context(), c.Params("id"), middleware.Owner(c))
	if err != nil {
		return verrors.HandleError(c, err)
	}
	return c.JSON(dto.StatusResponse{ID: asset.ID.String(), Status: asset.Status})
}

// Cancel skips a still-queued processing job.
func (h *VideoHandler) Cancel(c *fiber.Ctx) error {
	if err := h.videos.CancelQueued(c.Context(), c.Params("id"), middleware.Owner(c)); err != nil {
		return verrors.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"status": "cancelled"})
}

// Delete removes the asset record and every file belonging to it.
func (h *VideoHandler) Delete(c *fiber.Ctx) error {
	if err := h.videos.Delete(c.Context(), c.Params("id"), middleware.Owner(c)); err != nil {
		return verrors.HandleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
