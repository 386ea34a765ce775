package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"video-service/internal/domain/dto"
	"video-service/internal/domain/entities"
	"video-service/internal/infrastructure/layout"
	"video-service/internal/pkg/config"
	"video-service/internal/usecases"
	"video-service/pkg/constants"
	verrors "video-service/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVideoService backs the streaming endpoints with a fixed asset map; the
// streaming layer only ever reads.
type stubVideoService struct {
	assets map[uuid.UUID]*entities.VideoAsset
}

func (s *stubVideoService) Get(id string) (*entities.VideoAsset, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, verrors.ErrNotFound(err)
	}
	asset, ok := s.assets[parsed]
	if !ok {
		return nil, verrors.ErrNotFound(fmt.Errorf("no asset %s", id))
	}
	return asset, nil
}

func (s *stubVideoService) Upload(context.Context, usecases.UploadInput) (*entities.VideoAsset, error) {
	panic("not used")
}
func (s *stubVideoService) ListByOwner(string) ([]entities.VideoAsset, error) { panic("not used") }
func (s *stubVideoService) Trim(context.Context, string, string, *dto.TrimRequest) (*entities.VideoAsset, error) {
	panic("not used")
}
func (s *stubVideoService) Retry(context.Context, string, string) (*entities.VideoAsset, error) {
	panic("not used")
}
func (s *stubVideoService) CancelQueued(context.Context, string, string) error { panic("not used") }
func (s *stubVideoService) Delete(context.Context, string, string) error       { panic("not used") }

type streamFixture struct {
	app         *fiber.App
	layout      *layout.Manager
	assets      map[uuid.UUID]*entities.VideoAsset
	placeholder []byte
}

func newStreamFixture(t *testing.T, maxChunk int64) *streamFixture {
	t.Helper()

	mediaDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(mediaDir, "sources"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(mediaDir, "thumbnails"), 0o755))

	placeholder := []byte("\x89PNG placeholder bytes")
	placeholderPath := filepath.Join(t.TempDir(), "placeholder.png")
	require.NoError(t, os.WriteFile(placeholderPath, placeholder, 0o644))

	lay := layout.NewManager(mediaDir)
	assets := map[uuid.UUID]*entities.VideoAsset{}

	handler, err := NewStreamHandler(&stubVideoService{assets: assets}, lay, config.StreamConfig{
		MaxChunkSize:    maxChunk,
		PlaceholderPath: placeholderPath,
	})
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/stream/:id", handler.Stream)
	app.Get("/hls/:id/:file", handler.HLS)
	app.Get("/thumbnails/:id", handler.Thumbnail)

	return &streamFixture{app: app, layout: lay, assets: assets, placeholder: placeholder}
}

// addSource registers a ready asset whose source file holds exactly content.
func (f *streamFixture) addSource(t *testing.T, content []byte) uuid.UUID {
	t.Helper()

	id := uuid.New()
	path := f.layout.SourcePath(id, "clip.mp4")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	f.assets[id] = &entities.VideoAsset{
		ID:         id,
		OwnerID:    "owner-1",
		SourcePath: path,
		Status:     constants.StatusReady,
	}
	return id
}

func TestStreamCapsRangeAtMaxChunk(t *testing.T) {
	fix := newStreamFixture(t, 8)
	content := []byte("abcdefghijklmnopqrst") // 20 bytes
	id := fix.addSource(t, content)

	req := httptest.NewRequest("GET", "/stream/"+id.String(), nil)
	req.Header.Set("Range", "bytes=0-")
	resp, err := fix.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusPartialContent, resp.StatusCode)
	assert.Equal(t, "bytes 0-7/20", resp.Header.Get("Content-Range"))
	assert.Equal(t, "bytes", resp.Header.Get("Accept-Ranges"))
	assert.Equal(t, "8", resp.Header.Get("Content-Length"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdefgh"), body)
}

func TestStreamShortFileEndsAtSize(t *testing.T) {
	fix := newStreamFixture(t, 1024)
	content := []byte("tiny!")
	id := fix.addSource(t, content)

	req := httptest.NewRequest("GET", "/stream/"+id.String(), nil)
	req.Header.Set("Range", "bytes=0-")
	resp, err := fix.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusPartialContent, resp.StatusCode)
	assert.Equal(t, "bytes 0-4/5", resp.Header.Get("Content-Range"))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, content, body)
}

func TestStreamMidFileRange(t *testing.T) {
	fix := newStreamFixture(t, 8)
	id := fix.addSource(t, []byte("abcdefghijklmnopqrst"))

	req := httptest.NewRequest("GET", "/stream/"+id.String(), nil)
	req.Header.Set("Range", "bytes=10-12")
	resp, err := fix.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusPartialContent, resp.StatusCode)
	assert.Equal(t, "bytes 10-12/20", resp.Header.Get("Content-Range"))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, []byte("klm"), body)
}

func TestStreamWithoutRangeHeaderIsRejected(t *testing.T) {
	fix := newStreamFixture(t, 8)
	content := []byte("abcdefghijklmnopqrst")
	id := fix.addSource(t, content)

	resp, err := fix.app.Test(httptest.NewRequest("GET", "/stream/"+id.String(), nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// No file bytes may leak into the error response.
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "abcdefgh")
}

func TestStreamRejectsMalformedRanges(t *testing.T) {
	fix := newStreamFixture(t, 8)
	id := fix.addSource(t, []byte("abcdefghijklmnopqrst"))

	for _, header := range []string{"bytes=-", "bytes=9999-", "bytes=5-2", "chunks=0-", "bytes=abc-"} {
		req := httptest.NewRequest("GET", "/stream/"+id.String(), nil)
		req.Header.Set("Range", header)
		resp, err := fix.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "header %q", header)
	}
}

func TestStreamUnknownAssetIs404(t *testing.T) {
	fix := newStreamFixture(t, 8)

	req := httptest.NewRequest("GET", "/stream/"+uuid.NewString(), nil)
	req.Header.Set("Range", "bytes=0-")
	resp, err := fix.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = fix.app.Test(httptest.NewRequest("GET", "/stream/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestThumbnailFallsBackToPlaceholder(t *testing.T) {
	fix := newStreamFixture(t, 8)
	id := fix.addSource(t, []byte("video"))

	resp, err := fix.app.Test(httptest.NewRequest("GET", "/thumbnails/"+id.String(), nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fix.placeholder, body)
}

func TestThumbnailServesRealPosterWhenPresent(t *testing.T) {
	fix := newStreamFixture(t, 8)
	id := fix.addSource(t, []byte("video"))

	poster := []byte("jpeg frame")
	require.NoError(t, os.WriteFile(fix.layout.ThumbnailPath(id), poster, 0o644))

	resp, err := fix.app.Test(httptest.NewRequest("GET", "/thumbnails/"+id.String(), nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, poster, body)
}

func TestHLSServesManifestAndSegments(t *testing.T) {
	fix := newStreamFixture(t, 8)
	id := fix.addSource(t, []byte("video"))

	dir := fix.layout.DerivativeDir(id)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	manifest := []byte("#EXTM3U\n#EXT-X-VERSION:3\n")
	require.NoError(t, os.WriteFile(fix.layout.ManifestPath(id), manifest, 0o644))
	require.NoError(t, os.WriteFile(fix.layout.SegmentPath(id, "segment_000.ts"), []byte("mpegts"), 0o644))
	fix.assets[id].ManifestPath = fix.layout.ManifestPath(id)

	resp, err := fix.app.Test(httptest.NewRequest("GET", "/hls/"+id.String()+"/index.m3u8", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.apple.mpegurl", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, manifest, body)

	resp, err = fix.app.Test(httptest.NewRequest("GET", "/hls/"+id.String()+"/segment_000.ts", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "video/mp2t", resp.Header.Get("Content-Type"))
}

func TestHLSThumbnailRequestUsesFallback(t *testing.T) {
	fix := newStreamFixture(t, 8)
	id := fix.addSource(t, []byte("video"))
	// No poster exists and no manifest either; a thumbnail-named file on
	// the HLS route still resolves through the placeholder.

	resp, err := fix.app.Test(httptest.NewRequest("GET", "/hls/"+id.String()+"/thumbnail.jpg", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fix.placeholder, body)
}

func TestHLSMissingDerivativeIs404(t *testing.T) {
	fix := newStreamFixture(t, 8)
	id := fix.addSource(t, []byte("video"))
	// Asset exists but never produced a manifest.

	resp, err := fix.app.Test(httptest.NewRequest("GET", "/hls/"+id.String()+"/index.m3u8", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestNewStreamHandlerRequiresPlaceholder(t *testing.T) {
	lay := layout.NewManager(t.TempDir())
	_, err := NewStreamHandler(&stubVideoService{}, lay, config.StreamConfig{
		MaxChunkSize:    1024,
		PlaceholderPath: filepath.Join(t.TempDir(), "nope.png"),
	})
	assert.Error(t, err)
}
