package layout

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivativeDirsAreDistinct(t *testing.T) {
	m := NewManager("media")

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := uuid.New()
		dir := m.DerivativeDir(id)
		_, dup := seen[dir]
		require.False(t, dup, "duplicate derivative dir for %s", id)
		seen[dir] = struct{}{}
	}
}

func TestSourcePathUsesIDAndExtension(t *testing.T) {
	m := NewManager("media")
	id := uuid.New()

	p := m.SourcePath(id, "Holiday Clip.MP4")
	assert.Equal(t, filepath.Join("media", "sources", id.String()+".mp4"), p)

	// Deterministic: same inputs, same path.
	assert.Equal(t, p, m.SourcePath(id, "Holiday Clip.MP4"))
}

func TestManifestLivesInDerivativeDir(t *testing.T) {
	m := NewManager("media")
	id := uuid.New()

	assert.True(t, strings.HasPrefix(m.ManifestPath(id), m.DerivativeDir(id)))
	assert.True(t, strings.HasSuffix(m.ManifestPath(id), "index.m3u8"))
}

func TestSegmentPathIgnoresDirectoryTraversal(t *testing.T) {
	m := NewManager("media")
	id := uuid.New()

	p := m.SegmentPath(id, "../../../etc/passwd")
	assert.Equal(t, filepath.Join(m.DerivativeDir(id), "passwd"), p)
}

func TestThumbnailPath(t *testing.T) {
	m := NewManager("media")
	id := uuid.New()
	assert.Equal(t, filepath.Join("media", "thumbnails", id.String()+".jpg"), m.ThumbnailPath(id))
}
