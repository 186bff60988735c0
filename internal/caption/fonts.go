package caption

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/handiism/addprompt/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// ErrFontNotFound is returned when a font name cannot be resolved.
var ErrFontNotFound = errors.New("font not found")

// FontLoader resolves font names to files and parses them into faces.
//
// A name that points to an existing file is used directly. Otherwise the
// font directories are searched recursively for a file with that base
// name, in order. Parsed fonts are kept for the life of the loader.
type FontLoader struct {
	dirs []string

	mu    sync.Mutex
	fonts map[string]*opentype.Font
}

// NewFontLoader creates a loader searching extraDirs first and then the
// platform font directories.
func NewFontLoader(extraDirs ...string) *FontLoader {
	dirs := append([]string{}, extraDirs...)
	dirs = append(dirs, DefaultFontDirs()...)
	return &FontLoader{
		dirs:  dirs,
		fonts: make(map[string]*opentype.Font),
	}
}

// DefaultFontDirs returns the usual font directories of the platform.
func DefaultFontDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "fonts"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".local", "share", "fonts"),
			filepath.Join(home, ".fonts"),
		)
		if runtime.GOOS == "darwin" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
	}

	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs = append(dirs, filepath.Join(windir, "Fonts"))
	case "darwin":
		dirs = append(dirs, "/Library/Fonts", "/System/Library/Fonts")
	default:
		dirs = append(dirs, "/usr/local/share/fonts", "/usr/share/fonts")
	}
	return dirs
}

// Dirs returns the directories searched, in order.
func (l *FontLoader) Dirs() []string {
	return append([]string{}, l.dirs...)
}

// Find resolves name to a font file path.
func (l *FontLoader) Find(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty font name", ErrFontNotFound)
	}
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return name, nil
	}

	base := filepath.Base(name)
	for _, dir := range l.dirs {
		found := ""
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// unreadable or missing directories are skipped
				return nil
			}
			if !d.IsDir() && d.Name() == base {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			return "", err
		}
		if found != "" {
			return found, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrFontNotFound, name)
}

// Face returns a face for spec. Size is in pixels.
func (l *FontLoader) Face(spec model.FontSpec) (font.Face, error) {
	f, err := l.load(spec.Name)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    spec.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", spec.Name, err)
	}
	return face, nil
}

func (l *FontLoader) load(name string) (*opentype.Font, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.fonts[name]; ok {
		return f, nil
	}

	path, err := l.Find(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", name, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", path, err)
	}
	l.fonts[name] = f
	return f, nil
}
