package storage

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
)

// ImageProcessor renders poster thumbnails.
type ImageProcessor struct {
	maxWidth  int
	maxHeight int
	quality   int
}

// NewImageProcessor creates an ImageProcessor whose thumbnails fit inside
// maxWidth x maxHeight.
func NewImageProcessor(maxWidth, maxHeight int) *ImageProcessor {
	return &ImageProcessor{maxWidth: maxWidth, maxHeight: maxHeight, quality: 80}
}

// GenerateThumbnail decodes content (honouring EXIF orientation), scales it to
// fit the bounding box and returns it as a JPEG. Images already smaller than
// the box are re-encoded without upscaling.
func (p *ImageProcessor) GenerateThumbnail(content io.Reader) (io.Reader, error) {
	img, err := imaging.Decode(content, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > p.maxWidth || b.Dy() > p.maxHeight {
		img = imaging.Fit(img, p.maxWidth, p.maxHeight, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf, nil
}
