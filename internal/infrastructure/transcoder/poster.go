package transcoder

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// DownscalePoster resizes the extracted frame to the configured poster
// width, preserving aspect ratio. Frames narrower than width are left as is.
func DownscalePoster(path string, width int) error {
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("could not open poster frame: %w", err)
	}

	if img.Bounds().Dx() <= width {
		return nil
	}

	resized := imaging.Resize(img, width, 0, imaging.Lanczos)
	if err := imaging.Save(resized, path, imaging.JPEGQuality(85)); err != nil {
		return fmt.Errorf("could not save poster frame: %w", err)
	}
	return nil
}
