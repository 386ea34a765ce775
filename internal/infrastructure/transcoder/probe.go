package transcoder

// ffprobe JSON output parsing. Only the fields the pipeline needs are
// decoded; everything else in the probe output is ignored.

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

type format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

// ProbeResult holds the metadata extracted from a media file.
type ProbeResult struct {
	Streams []stream `json:"streams"`
	Format  format   `json:"format"`
}

// Duration returns the container duration in seconds. Falls back to the
// first video stream when the container does not carry one.
func (pr *ProbeResult) Duration() (float64, error) {
	if pr.Format.Duration != "" {
		d, err := strconv.ParseFloat(pr.Format.Duration, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse duration %q: %w", pr.Format.Duration, err)
		}
		return d, nil
	}

	for _, s := range pr.Streams {
		if s.CodecType == "video" && s.Duration != "" {
			d, err := strconv.ParseFloat(s.Duration, 64)
			if err != nil {
				continue
			}
			return d, nil
		}
	}

	return 0, fmt.Errorf("duration not available in probe output")
}

// Dimensions returns width and height of the first video stream.
func (pr *ProbeResult) Dimensions() (int, int, bool) {
	for _, s := range pr.Streams {
		if s.CodecType == "video" && s.Width > 0 {
			return s.Width, s.Height, true
		}
	}
	return 0, 0, false
}

func parseProbeOutput(data []byte) (*ProbeResult, error) {
	var pr ProbeResult
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, fmt.Errorf("could not decode ffprobe output: %w", err)
	}
	return &pr, nil
}
