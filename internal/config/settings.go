package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	ioutils "github.com/handiism/addprompt/internal/io"
	"github.com/handiism/addprompt/internal/model"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// ErrUnknownPreset is returned when a preset name matches neither a
// built-in preset nor a style defined in the settings.
var ErrUnknownPreset = errors.New("unknown preset")

// Settings holds all configuration options.
type Settings struct {
	// Folder layout
	ImageFileName  string `json:"image_file_name" yaml:"image_file_name"`
	PromptFileName string `json:"prompt_file_name" yaml:"prompt_file_name"`
	OutputFileName string `json:"output_file_name" yaml:"output_file_name"`

	// Batch settings
	Force                bool `json:"force" yaml:"force"`
	ContinueOnError      bool `json:"continue_on_error" yaml:"continue_on_error"`
	MaxConcurrentFolders int  `json:"max_concurrent_folders" yaml:"max_concurrent_folders"`

	// Rendering
	Preset    string   `json:"preset" yaml:"preset"`
	BandRatio float64  `json:"band_ratio" yaml:"band_ratio"`
	FontDirs  []string `json:"font_dirs,omitempty" yaml:"font_dirs,omitempty"`

	// Hyphenation dictionary; empty uses the built-in rules of the
	// preset locale.
	HyphenationDictionary    string  `json:"hyphenation_dictionary,omitempty" yaml:"hyphenation_dictionary,omitempty"`
	HyphenationDictionaryURL string  `json:"hyphenation_dictionary_url,omitempty" yaml:"hyphenation_dictionary_url,omitempty"`
	DownloadMaxRetries       int     `json:"download_max_retries" yaml:"download_max_retries"`
	DownloadRetryCooldown    float64 `json:"download_retry_cooldown" yaml:"download_retry_cooldown"`
	DownloadRetryExponent    float64 `json:"download_retry_exponent" yaml:"download_retry_exponent"`

	// Custom presets by name
	Styles map[string]*StyleSettings `json:"styles,omitempty" yaml:"styles,omitempty"`
}

// StyleSettings describes a custom preset as changes over a built-in one.
// Unset fields keep the value of Base.
type StyleSettings struct {
	Base       string             `json:"base,omitempty" yaml:"base,omitempty"` // deeplili or plain
	Background string             `json:"background,omitempty" yaml:"background,omitempty"`
	Caption    *TextStyleSettings `json:"caption,omitempty" yaml:"caption,omitempty"`
	Watermark  *WatermarkSettings `json:"watermark,omitempty" yaml:"watermark,omitempty"`

	TrimSuffix *int    `json:"trim_suffix,omitempty" yaml:"trim_suffix,omitempty"`
	MaxLength  *int    `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	Ellipsis   *string `json:"ellipsis,omitempty" yaml:"ellipsis,omitempty"`
	WrapWidth  *int    `json:"wrap_width,omitempty" yaml:"wrap_width,omitempty"`
	Hyphenate  *bool   `json:"hyphenate,omitempty" yaml:"hyphenate,omitempty"`
	Locale     string  `json:"locale,omitempty" yaml:"locale,omitempty"`
	Quote      *bool   `json:"quote,omitempty" yaml:"quote,omitempty"`
}

// TextStyleSettings overrides parts of a text style.
type TextStyleSettings struct {
	Font        string  `json:"font,omitempty" yaml:"font,omitempty"`
	Size        float64 `json:"size,omitempty" yaml:"size,omitempty"`
	Color       string  `json:"color,omitempty" yaml:"color,omitempty"`
	X           *int    `json:"x,omitempty" yaml:"x,omitempty"`
	Y           *int    `json:"y,omitempty" yaml:"y,omitempty"`
	Align       string  `json:"align,omitempty" yaml:"align,omitempty"`
	LineSpacing *int    `json:"line_spacing,omitempty" yaml:"line_spacing,omitempty"`
}

// WatermarkSettings overrides the watermark. Disabled removes it.
type WatermarkSettings struct {
	Disabled          bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Text              string `json:"text,omitempty" yaml:"text,omitempty"`
	TextStyleSettings `yaml:",inline"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		ImageFileName:  model.DefaultImageFileName,
		PromptFileName: model.DefaultPromptFileName,
		OutputFileName: model.DefaultOutputFileName,

		Force:                false,
		ContinueOnError:      false,
		MaxConcurrentFolders: 1,

		Preset:    model.PresetDeeplili,
		BandRatio: 0.33,

		DownloadMaxRetries:    7,
		DownloadRetryCooldown: 0.2,
		DownloadRetryExponent: 4.0,
	}
}

// DefaultPath returns the settings file used when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "addprompt.yaml"
	}
	return filepath.Join(dir, "addprompt", "config.yaml")
}

// Load reads settings from a JSON or YAML file, chosen by extension
// (.yaml and .yml are YAML, anything else JSON). A missing file yields
// the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Validate reports settings that cannot run.
func (s *Settings) Validate() error {
	if s.MaxConcurrentFolders < 1 {
		return fmt.Errorf("max_concurrent_folders must be at least 1, got %d", s.MaxConcurrentFolders)
	}
	if s.BandRatio <= 0 {
		return fmt.Errorf("band_ratio must be positive, got %g", s.BandRatio)
	}
	if _, err := s.ToStyle(s.Preset); err != nil {
		return err
	}
	return nil
}

// PresetNames returns the built-in preset names followed by the custom
// ones, sorted.
func (s *Settings) PresetNames() []string {
	names := model.BuiltinStyleNames()
	var custom []string
	for name := range s.Styles {
		if _, ok := model.BuiltinStyle(name); !ok {
			custom = append(custom, name)
		}
	}
	sort.Strings(custom)
	return append(names, custom...)
}

// ToFolderConfig converts settings to FolderConfig.
func (s *Settings) ToFolderConfig() *model.FolderConfig {
	return &model.FolderConfig{
		ImageFileName:  s.ImageFileName,
		PromptFileName: s.PromptFileName,
		OutputFileName: s.OutputFileName,
	}
}

// ToStyle resolves a preset name to a Style. An empty name means
// s.Preset. Custom styles take precedence over built-in presets of the
// same name.
func (s *Settings) ToStyle(name string) (model.Style, error) {
	if name == "" {
		name = s.Preset
	}
	if name == "" {
		name = model.PresetDeeplili
	}

	custom, ok := s.Styles[name]
	if !ok || custom == nil {
		style, ok := model.BuiltinStyle(name)
		if !ok {
			return model.Style{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
		}
		return style, nil
	}

	base := custom.Base
	if base == "" {
		base = model.PresetDeeplili
	}
	style, ok := model.BuiltinStyle(base)
	if !ok {
		return model.Style{}, fmt.Errorf("style %s: %w: base %q", name, ErrUnknownPreset, base)
	}
	style.Name = name

	if err := custom.apply(&style); err != nil {
		return model.Style{}, fmt.Errorf("style %s: %w", name, err)
	}
	return style, nil
}

func (c *StyleSettings) apply(style *model.Style) error {
	if c.Background != "" {
		bg, err := ParseColor(c.Background)
		if err != nil {
			return fmt.Errorf("background: %w", err)
		}
		style.Background = bg
	}

	if c.Caption != nil {
		if err := c.Caption.apply(&style.Caption); err != nil {
			return fmt.Errorf("caption: %w", err)
		}
	}

	if wm := c.Watermark; wm != nil {
		if wm.Disabled {
			style.Watermark = nil
		} else {
			var w model.Watermark
			if style.Watermark != nil {
				w = *style.Watermark
			} else {
				w.Style = style.Caption
			}
			if wm.Text != "" {
				w.Text = wm.Text
			}
			if err := wm.TextStyleSettings.apply(&w.Style); err != nil {
				return fmt.Errorf("watermark: %w", err)
			}
			style.Watermark = &w
		}
	}

	if c.TrimSuffix != nil {
		style.TrimSuffix = *c.TrimSuffix
	}
	if c.MaxLength != nil {
		style.MaxLength = *c.MaxLength
	}
	if c.Ellipsis != nil {
		style.Ellipsis = *c.Ellipsis
	}
	if c.WrapWidth != nil {
		style.WrapWidth = *c.WrapWidth
	}
	if c.Hyphenate != nil {
		style.Hyphenate = *c.Hyphenate
	}
	if c.Locale != "" {
		style.Locale = c.Locale
	}
	if c.Quote != nil {
		style.Quote = *c.Quote
	}
	return nil
}

func (t *TextStyleSettings) apply(ts *model.TextStyle) error {
	if t.Font != "" {
		ts.Font.Name = t.Font
	}
	if t.Size > 0 {
		ts.Font.Size = t.Size
	}
	if t.Color != "" {
		c, err := ParseColor(t.Color)
		if err != nil {
			return err
		}
		ts.Color = c
	}
	if t.X != nil || t.Y != nil {
		pt := ts.Origin
		if t.X != nil {
			pt.X = *t.X
		}
		if t.Y != nil {
			pt.Y = *t.Y
		}
		ts.Origin = image.Pt(pt.X, pt.Y)
	}
	if t.Align != "" {
		a, err := model.ParseAlign(t.Align)
		if err != nil {
			return err
		}
		ts.Align = a
	}
	if t.LineSpacing != nil {
		ts.LineSpacing = *t.LineSpacing
	}
	return nil
}

// ParseColor parses "#rrggbb" (opaque) or "#rrggbbaa". The short "#rgb"
// form is accepted too.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(0xff)
	if len(s) == 9 && strings.HasPrefix(s, "#") {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("color %q: invalid alpha", s)
		}
		alpha = uint8(a)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// FormatColor is the inverse of ParseColor.
func FormatColor(c color.NRGBA) string {
	hex := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
	if c.A != 0xff {
		hex += fmt.Sprintf("%02x", c.A)
	}
	return hex
}
