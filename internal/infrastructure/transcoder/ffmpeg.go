package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"video-service/internal/pkg/config"
)

// FFmpegBackend implements repositories.TranscodingBackend by invoking
// ffmpeg/ffprobe as subprocesses. An in-flight subprocess is never killed by
// a cancel request; callers mark jobs cancelled before they start instead.
type FFmpegBackend struct {
	ffmpegPath  string
	ffprobePath string
}

func NewFFmpegBackend(cfg config.TranscodeConfig) *FFmpegBackend {
	return &FFmpegBackend{
		ffmpegPath:  cfg.FFmpegPath,
		ffprobePath: cfg.FFprobePath,
	}
}

// Verify checks that the configured binaries exist. Called once at startup
// so an unreachable backend is a clear boot failure, not a per-request one.
func (b *FFmpegBackend) Verify() error {
	if _, err := exec.LookPath(b.ffmpegPath); err != nil {
		return fmt.Errorf("ffmpeg not found at %q: %w", b.ffmpegPath, err)
	}
	if _, err := exec.LookPath(b.ffprobePath); err != nil {
		return fmt.Errorf("ffprobe not found at %q: %w", b.ffprobePath, err)
	}
	return nil
}

func (b *FFmpegBackend) Probe(ctx context.Context, path string) (float64, error) {
	if path == "" {
		return 0, fmt.Errorf("probe path cannot be empty")
	}

	cmd := exec.CommandContext(ctx, b.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w - %s", err, stderr.String())
	}

	pr, err := parseProbeOutput(stdout.Bytes())
	if err != nil {
		return 0, err
	}
	return pr.Duration()
}

func (b *FFmpegBackend) Thumbnail(ctx context.Context, path string, offsetFraction float64, outPath string) error {
	duration, err := b.Probe(ctx, path)
	if err != nil {
		return err
	}

	if offsetFraction < 0 || offsetFraction > 1 {
		offsetFraction = 0.5
	}
	offset := duration * offsetFraction

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("could not create thumbnail dir: %w", err)
	}

	cmd := exec.CommandContext(ctx, b.ffmpegPath,
		"-y",
		"-ss", fmt.Sprintf("%.3f", offset),
		"-i", path,
		"-vframes", "1",
		"-q:v", "2",
		outPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg thumbnail failed: %w - %s", err, stderr.String())
	}
	return nil
}

func (b *FFmpegBackend) Segment(ctx context.Context, path string, segmentSeconds int, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("could not create derivative dir: %w", err)
	}

	manifest := filepath.Join(outDir, "index.m3u8")
	cmd := exec.CommandContext(ctx, b.ffmpegPath,
		"-y",
		"-i", path,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-f", "hls",
		"-hls_time", fmt.Sprintf("%d", segmentSeconds),
		"-hls_playlist_type", "vod",
		"-hls_segment_filename", filepath.Join(outDir, "segment_%03d.ts"),
		manifest,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg hls segmenting failed: %w - %s", err, stderr.String())
	}
	return manifest, nil
}

func (b *FFmpegBackend) Trim(ctx context.Context, path string, start, end float64, outPath string) error {
	if end <= start {
		return fmt.Errorf("trim end %.3f must be after start %.3f", end, start)
	}

	cmd := exec.CommandContext(ctx, b.ffmpegPath,
		"-y",
		"-ss", fmt.Sprintf("%.3f", start),
		"-to", fmt.Sprintf("%.3f", end),
		"-i", path,
		"-c", "copy",
		outPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg trim failed: %w - %s", err, stderr.String())
	}
	return nil
}
