// Package model defines the core data structures used throughout addprompt.
//
// # Folder
//
// Folder represents one item directory of a batch with its computed
// input and output paths:
//
//	folder := model.NewFolder("/data/item1", model.DefaultFolderConfig())
//	fmt.Println(folder.ImagePath)  // /data/item1/image.png
//	fmt.Println(folder.OutputPath) // /data/item1/output.png
//
// # Style
//
// Style is a rendering preset for the caption band: background color,
// caption and watermark text styles, and the caption text policy
// (trim, length cap, wrap width, hyphenation locale).
//
//	style, ok := model.BuiltinStyle(model.PresetDeeplili)
//	text := style.PrepareCaption(raw) // trimmed and capped
//
// Built-in presets: "deeplili" (branded, wrapped, watermarked) and
// "plain" (caption verbatim on a transparent band).
package model
