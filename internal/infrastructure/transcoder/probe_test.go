package transcoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProbeOutput = `{
	"streams": [
		{
			"index": 0,
			"codec_name": "h264",
			"codec_type": "video",
			"width": 1920,
			"height": 1080,
			"duration": "10.010000"
		},
		{
			"index": 1,
			"codec_name": "aac",
			"codec_type": "audio",
			"duration": "10.005000"
		}
	],
	"format": {
		"filename": "sample.mp4",
		"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
		"duration": "10.010000",
		"size": "1570024",
		"bit_rate": "1254783"
	}
}`

func TestParseProbeOutput(t *testing.T) {
	pr, err := parseProbeOutput([]byte(sampleProbeOutput))
	require.NoError(t, err)

	d, err := pr.Duration()
	require.NoError(t, err)
	assert.InDelta(t, 10.01, d, 0.001)

	w, h, ok := pr.Dimensions()
	require.True(t, ok)
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
}

func TestDurationFallsBackToVideoStream(t *testing.T) {
	raw := `{"streams":[{"index":0,"codec_type":"video","duration":"4.5"}],"format":{}}`
	pr, err := parseProbeOutput([]byte(raw))
	require.NoError(t, err)

	d, err := pr.Duration()
	require.NoError(t, err)
	assert.Equal(t, 4.5, d)
}

func TestDurationMissing(t *testing.T) {
	pr, err := parseProbeOutput([]byte(`{"streams":[],"format":{}}`))
	require.NoError(t, err)

	_, err = pr.Duration()
	assert.Error(t, err)
}

func TestParseProbeOutputGarbage(t *testing.T) {
	_, err := parseProbeOutput([]byte("not json"))
	assert.Error(t, err)
}
