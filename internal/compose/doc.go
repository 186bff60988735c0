// Package compose builds the output image: the source image on top and a
// caption band of floor(height * ratio) rows below it, both at the source
// width.
//
//	c := compose.NewCompositor(renderer, ioutils.NewImageService(), compose.DefaultBandRatio)
//	err := c.CombineFile(ctx, "item/image.png", prompt, "item/output.png")
package compose
