package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumDetectsModification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	sum, err := Checksum(path)
	require.NoError(t, err)
	require.NoError(t, ValidateChecksum(path, sum))

	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0o644))
	assert.Error(t, ValidateChecksum(path, sum))
}

func TestValidateChecksumSkipsWhenUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob")
	require.NoError(t, os.WriteFile(path, []byte("anything"), 0o644))
	assert.NoError(t, ValidateChecksum(path, ""))
}
