package ioutils

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// ImageService provides the image operations used to build composites.
//
// ImageService is used to:
//   - Decode source images (PNG, JPEG, GIF, BMP, TIFF)
//   - Allocate canvases with an alpha channel
//   - Paste one image into another, replacing pixels
//   - Encode results with the format chosen by the file extension
//
// Example usage:
//
//	svc := NewImageService()
//	src, _ := svc.Open("item/image.png")
//	canvas := svc.NewCanvas(100, 133, color.NRGBA{})
//	canvas = svc.Paste(canvas, src, image.Pt(0, 0))
//	err := svc.Save(ctx, canvas, "item/output.png")
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Open decodes the image at path. EXIF orientation is not applied; the
// pixels are used as stored.
func (s *ImageService) Open(path string) (image.Image, error) {
	return imaging.Open(path)
}

// NewCanvas allocates a width x height NRGBA image filled with fill.
func (s *ImageService) NewCanvas(width, height int, fill color.Color) *image.NRGBA {
	return imaging.New(width, height, fill)
}

// Paste copies src into dst with its top-left corner at pt and returns the
// result. Pixels are replaced, not blended, so transparent areas of src stay
// transparent in the result.
func (s *ImageService) Paste(dst, src image.Image, pt image.Point) *image.NRGBA {
	return imaging.Paste(dst, src, pt)
}

// Save encodes img into path using the format implied by the extension
// (.png, .jpg, .jpeg, .gif, .tif, .tiff, .bmp).
//
// The image is first encoded into a temporary file in the same directory
// and then renamed over path, so a failed encode never leaves a partial
// file behind.
func (s *ImageService) Save(ctx context.Context, img image.Image, path string) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("output %s: %w", path, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := imaging.Encode(tmp, img, format); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	// CreateTemp uses 0600; outputs should be readable like files from os.Create.
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
