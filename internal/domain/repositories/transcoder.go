package repositories

import "context"

// TranscodingBackend wraps the external media tool. Every method may fail
// with a backend-specific error; the pipeline treats any failure uniformly
// as a processing failure.
type TranscodingBackend interface {
	// Probe returns the duration of the media file in seconds.
	Probe(ctx context.Context, path string) (float64, error)
	// Thumbnail extracts a frame at offsetFraction (0..1) of the duration
	// and writes it to outPath.
	Thumbnail(ctx context.Context, path string, offsetFraction float64, outPath string) error
	// Segment transcodes the source into an HLS manifest plus chunk files
	// under outDir and returns the manifest path.
	Segment(ctx context.Context, path string, segmentSeconds int, outDir string) (string, error)
	// Trim writes the [start,end] window of the source to outPath.
	Trim(ctx context.Context, path string, start, end float64, outPath string) error
}
