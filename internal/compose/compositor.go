package compose

import (
	"context"
	"fmt"
	"image"

	ioutils "github.com/handiism/addprompt/internal/io"
)

// DefaultBandRatio is the caption band height relative to the image height.
const DefaultBandRatio = 0.33

// CaptionRenderer draws a caption band of a given size.
type CaptionRenderer interface {
	Render(caption string, size image.Point) (image.Image, error)
}

// Compositor stacks a source image on top of a caption band.
type Compositor struct {
	renderer CaptionRenderer
	images   *ioutils.ImageService
	ratio    float64
}

// NewCompositor creates a Compositor. A ratio <= 0 uses DefaultBandRatio.
func NewCompositor(renderer CaptionRenderer, images *ioutils.ImageService, ratio float64) *Compositor {
	if images == nil {
		images = ioutils.NewImageService()
	}
	if ratio <= 0 {
		ratio = DefaultBandRatio
	}
	return &Compositor{
		renderer: renderer,
		images:   images,
		ratio:    ratio,
	}
}

// BandHeight returns floor(height * ratio).
func BandHeight(height int, ratio float64) int {
	return int(float64(height) * ratio)
}

// Compose returns a new image of the source width and source height plus
// the band height. The source occupies the top rows unchanged and the
// rendered band the rows below it.
func (c *Compositor) Compose(src image.Image, caption string) (*image.NRGBA, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	bandH := BandHeight(h, c.ratio)

	band, err := c.renderer.Render(caption, image.Pt(w, bandH))
	if err != nil {
		return nil, fmt.Errorf("render caption: %w", err)
	}

	canvas := c.images.NewCanvas(w, h+bandH, image.Transparent)
	canvas = c.images.Paste(canvas, src, image.Pt(0, 0))
	canvas = c.images.Paste(canvas, band, image.Pt(0, h))
	return canvas, nil
}

// CombineFile reads the image at imagePath, composes it with caption and
// writes the result to outPath.
func (c *Compositor) CombineFile(ctx context.Context, imagePath, caption, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := c.images.Open(imagePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", imagePath, err)
	}

	out, err := c.Compose(src, caption)
	if err != nil {
		return err
	}

	return c.images.Save(ctx, out, outPath)
}
