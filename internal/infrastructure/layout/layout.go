package layout

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Manager maps an asset id to its on-disk locations. It is a pure
// computation over the id: no side effects, no filesystem access.
//
// Layout under the media root:
//
//	sources/<id><ext>         uploaded file
//	thumbnails/<id>.jpg       poster frame
//	hls/<id>/index.m3u8       manifest (+ segment_*.ts chunks)
type Manager struct {
	root string
}

func NewManager(mediaRoot string) *Manager {
	return &Manager{root: mediaRoot}
}

func (m *Manager) Root() string {
	return m.root
}

// SourcePath derives the upload location from the id and the original
// extension. The extension is normalized to its lowercase form so lookups
// don't depend on client casing.
func (m *Manager) SourcePath(id uuid.UUID, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return filepath.Join(m.root, "sources", id.String()+ext)
}

// DerivativeDir is one directory per asset. Two distinct ids can never
// collide because the uuid is the directory name.
func (m *Manager) DerivativeDir(id uuid.UUID) string {
	return filepath.Join(m.root, "hls", id.String())
}

func (m *Manager) ManifestPath(id uuid.UUID) string {
	return filepath.Join(m.DerivativeDir(id), "index.m3u8")
}

func (m *Manager) SegmentPath(id uuid.UUID, name string) string {
	return filepath.Join(m.DerivativeDir(id), filepath.Base(name))
}

func (m *Manager) ThumbnailPath(id uuid.UUID) string {
	return filepath.Join(m.root, "thumbnails", id.String()+".jpg")
}

// TrimmedSourcePath holds the re-cut source produced by a trim reprocess.
func (m *Manager) TrimmedSourcePath(id uuid.UUID, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return filepath.Join(m.root, "sources", fmt.Sprintf("%s_trimmed%s", id.String(), ext))
}
