package handlers

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"video-service/internal/infrastructure/layout"
	"video-service/internal/pkg/config"
	"video-service/internal/usecases"
	"video-service/pkg/constants"
	verrors "video-service/pkg/errors"
	"video-service/pkg/helper"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// StreamHandler serves progressive (range-request) playback of sources and
// verbatim HLS manifests/segments, with the thumbnail fallback resolver in
// front of poster requests.
type StreamHandler struct {
	videos          usecases.VideoService
	layout          *layout.Manager
	maxChunk        int64
	placeholder     []byte
	placeholderType string
}

// NewStreamHandler loads the placeholder asset eagerly: a missing
// placeholder is a fatal configuration error at startup, not a per-request
// surprise.
func NewStreamHandler(videos usecases.VideoService, lay *layout.Manager, cfg config.StreamConfig) (*StreamHandler, error) {
	placeholder, err := os.ReadFile(cfg.PlaceholderPath)
	if err != nil {
		return nil, fmt.Errorf("thumbnail placeholder %q unavailable: %w", cfg.PlaceholderPath, err)
	}

	return &StreamHandler{
		videos:          videos,
		layout:          lay,
		maxChunk:        cfg.MaxChunkSize,
		placeholder:     placeholder,
		placeholderType: helper.MimeTypeFromExtension(cfg.PlaceholderPath),
	}, nil
}

// Stream
//
// @Summary      Range-request streaming of the source file
// @Description  Requires a Range header; responses are capped at 1 MiB windows
// @Tags         Streaming
// @Param        id  path  string true "Asset id"
// @Success      206
// @Failure      400  {object}  dto.ErrorResponse "Range header missing"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /stream/{id} [get]
func (h *StreamHandler) Stream(c *fiber.Ctx) error {
	asset, err := h.videos.Get(c.Params("id"))
	if err != nil {
		return verrors.HandleError(c, err)
	}
	if asset.SourcePath == "" {
		return verrors.HandleError(c, verrors.ErrNotFound(fmt.Errorf("asset %s has no local source", asset.ID)))
	}

	// This endpoint never serves a full-file 200; seekable playback always
	// goes through ranges.
	rangeHeader := c.Get("Range")
	if rangeHeader == "" {
		return verrors.HandleError(c, verrors.ErrRangeRequired(nil))
	}

	f, err := os.Open(asset.SourcePath)
	if err != nil {
		return verrors.HandleError(c, verrors.ErrNotFound(err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return verrors.HandleError(c, verrors.ErrInternal(err))
	}
	size := info.Size()

	start, end, err := parseRange(rangeHeader, size, h.maxChunk)
	if err != nil {
		return verrors.HandleError(c, verrors.ErrInvalidRange(err))
	}

	length := end - start + 1
	buf := make([]byte, length)
	if _, err := f.ReadAt(buf, start); err != nil {
		return verrors.HandleError(c, verrors.ErrInternal(err))
	}

	c.Set(fiber.HeaderContentRange, fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	c.Set(fiber.HeaderAcceptRanges, "bytes")
	c.Set(fiber.HeaderContentLength, strconv.FormatInt(length, 10))
	c.Set(fiber.HeaderContentType, helper.MimeTypeFromExtension(asset.SourcePath))
	return c.Status(fiber.StatusPartialContent).Send(buf)
}

// parseRange handles the "bytes=start-end" form and caps the window at
// maxChunk bytes: end = min(start+maxChunk-1, size-1). Clients asking for
// more get less and follow up with the next range.
func parseRange(header string, size, maxChunk int64) (int64, int64, error) {
	window, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return 0, 0, fmt.Errorf("unsupported range unit in %q", header)
	}

	parts := strings.SplitN(window, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed range %q", header)
	}

	start, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || start < 0 {
		return 0, 0, fmt.Errorf("malformed range start in %q", header)
	}
	if start >= size {
		return 0, 0, fmt.Errorf("range start %d beyond size %d", start, size)
	}

	end := start + maxChunk - 1
	if requested := strings.TrimSpace(parts[1]); requested != "" {
		reqEnd, err := strconv.ParseInt(requested, 10, 64)
		if err != nil || reqEnd < start {
			return 0, 0, fmt.Errorf("malformed range end in %q", header)
		}
		if reqEnd < end {
			end = reqEnd
		}
	}
	if end > size-1 {
		end = size - 1
	}

	return start, end, nil
}

// HLS serves the manifest and segment files verbatim; they are already
// bounded chunks, so no range logic applies. Requests naming a thumbnail go
// through the fallback resolver.
func (h *StreamHandler) HLS(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return verrors.HandleError(c, verrors.ErrNotFound(err))
	}

	name := c.Params("file")
	if name == "" {
		name = "index.m3u8"
	}
	if strings.Contains(name, "thumbnail") {
		return h.serveThumbnail(c, h.layout.ThumbnailPath(id))
	}

	asset, err := h.videos.Get(id.String())
	if err != nil {
		return verrors.HandleError(c, err)
	}
	if asset.Status != constants.StatusReady || asset.ManifestPath == "" {
		return verrors.HandleError(c, verrors.ErrNotFound(fmt.Errorf("no derivative for asset %s", id)))
	}

	path := h.layout.SegmentPath(id, name)
	if _, err := os.Stat(path); err != nil {
		return verrors.HandleError(c, verrors.ErrNotFound(err))
	}

	if err := c.SendFile(path); err != nil {
		return verrors.HandleError(c, verrors.ErrInternal(err))
	}
	// Set after SendFile so our mapping wins over the platform mime table.
	c.Set(fiber.HeaderContentType, helper.MimeTypeFromExtension(name))
	return nil
}

// Thumbnail
//
// @Summary      Poster image with placeholder fallback
// @Description  Absent thumbnails (still processing, or failed) return the placeholder with status 200
// @Tags         Streaming
// @Param        id  path  string true "Asset id"
// @Success      200
// @Router       /thumbnails/{id} [get]
func (h *StreamHandler) Thumbnail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return verrors.HandleError(c, verrors.ErrNotFound(err))
	}
	return h.serveThumbnail(c, h.layout.ThumbnailPath(id))
}

// serveThumbnail is the fallback resolver: when the target file is absent
// (not yet produced, or the thumbnail step failed) it transparently serves
// the placeholder so the player UI never breaks on pipeline timing.
func (h *StreamHandler) serveThumbnail(c *fiber.Ctx, path string) error {
	if _, err := os.Stat(path); err != nil {
		c.Set(fiber.HeaderContentType, h.placeholderType)
		return c.Status(fiber.StatusOK).Send(h.placeholder)
	}

	if err := c.SendFile(path); err != nil {
		c.Set(fiber.HeaderContentType, h.placeholderType)
		return c.Status(fiber.StatusOK).Send(h.placeholder)
	}
	c.Set(fiber.HeaderContentType, helper.MimeTypeFromExtension(path))
	return nil
}
