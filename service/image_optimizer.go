package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800
)

// Preview sizes accepted by OptimizeImage
const (
	PreviewThumb  = "thumb"
	PreviewMedium = "medium"
)

// OptimizeImage converts a receipt screenshot (PNG, JPEG) to a resized JPEG
// size: "thumb" or "medium"
func OptimizeImage(imageData []byte, size string, logger *zap.SugaredLogger) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var maxDim, quality int
	switch size {
	case PreviewThumb:
		maxDim, quality = maxSizeThumb, qualityThumb
	case PreviewMedium:
		maxDim, quality = maxSizeMedium, qualityMedium
	default:
		maxDim, quality = maxSizeMedium, qualityMedium
		logger.Warnf("⚠️ OptimizeImage: unknown size '%s', defaulting to medium", size)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var resized image.Image = img
	if width > maxDim || height > maxDim {
		// keep aspect ratio
		var newWidth, newHeight int
		if width > height {
			newWidth = maxDim
			newHeight = int(float64(height) * float64(maxDim) / float64(width))
		} else {
			newHeight = maxDim
			newWidth = int(float64(width) * float64(maxDim) / float64(height))
		}
		logger.Debugf("🔄 OptimizeImage: resizing %s %dx%d -> %dx%d", format, width, height, newWidth, newHeight)
		resized = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
