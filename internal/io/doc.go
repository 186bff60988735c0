// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Listing item folders of a batch
//   - Reading caption text files
//   - Directory creation and existence checks
//   - Opening, compositing and saving images
//
// # File Operations
//
//	// Immediate subdirectories only, files are ignored
//	folders, err := ioutils.ListFolders("/data/batch")
//
//	// Whole caption text, newlines included
//	text, err := ioutils.ReadTextFile("/data/batch/item1/prompt.txt")
//
// # Image Processing
//
// The ImageService wraps the imaging backend:
//
//	svc := ioutils.NewImageService()
//	src, _ := svc.Open("image.png")
//	canvas := svc.NewCanvas(w, h, color.NRGBA{})
//	canvas = svc.Paste(canvas, src, image.Pt(0, 0))
//	err := svc.Save(ctx, canvas, "output.png") // format from extension
package ioutils
