package model

import "path/filepath"

// Default file names inside every item folder.
const (
	DefaultImageFileName  = "image.png"
	DefaultPromptFileName = "prompt.txt"
	DefaultOutputFileName = "output.png"
)

// Folder represents one item directory of a batch run.
//
// A folder holds a source image and a caption text file; the captioned
// composite is written next to them. Paths are computed once by NewFolder
// from the FolderConfig file names.
//
// Example:
//
//	cfg := DefaultFolderConfig()
//	folder := NewFolder("/data/item1", cfg)
//	// folder.ImagePath  = "/data/item1/image.png"
//	// folder.PromptPath = "/data/item1/prompt.txt"
//	// folder.OutputPath = "/data/item1/output.png"
type Folder struct {
	// Path is the item directory itself.
	Path string

	// ImagePath is the source image read by the compositor.
	ImagePath string

	// PromptPath is the caption text file.
	PromptPath string

	// OutputPath is where the composite image is written.
	// The output format follows its extension.
	OutputPath string
}

// FolderConfig holds the file names looked up inside each item folder.
type FolderConfig struct {
	ImageFileName  string
	PromptFileName string
	OutputFileName string
}

// DefaultFolderConfig returns the fixed layout: image.png, prompt.txt, output.png.
func DefaultFolderConfig() *FolderConfig {
	return &FolderConfig{
		ImageFileName:  DefaultImageFileName,
		PromptFileName: DefaultPromptFileName,
		OutputFileName: DefaultOutputFileName,
	}
}

// NewFolder creates a Folder with paths computed from cfg.
// Empty names in cfg fall back to the defaults.
func NewFolder(path string, cfg *FolderConfig) *Folder {
	if cfg == nil {
		cfg = DefaultFolderConfig()
	}
	return &Folder{
		Path:       path,
		ImagePath:  filepath.Join(path, orDefault(cfg.ImageFileName, DefaultImageFileName)),
		PromptPath: filepath.Join(path, orDefault(cfg.PromptFileName, DefaultPromptFileName)),
		OutputPath: filepath.Join(path, orDefault(cfg.OutputFileName, DefaultOutputFileName)),
	}
}

// Name returns the base name of the folder, used in progress messages.
func (f *Folder) Name() string {
	return filepath.Base(f.Path)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
