package model

import (
	"fmt"
	"image"
	"image/color"
	"sort"
)

// Preset names of the built-in styles.
const (
	PresetDeeplili = "deeplili"
	PresetPlain    = "plain"
)

// Align controls horizontal placement of the lines of a multi-line text
// relative to its widest line.
type Align int

const (
	// AlignLeft keeps every line at the text origin.
	AlignLeft Align = iota

	// AlignCenter centres each line within the width of the widest line.
	AlignCenter

	// AlignRight aligns each line to the right edge of the widest line.
	AlignRight
)

// String returns the name used in configuration files.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ParseAlign converts a configuration value into an Align.
// The empty string maps to AlignLeft.
func ParseAlign(s string) (Align, error) {
	switch s {
	case "", "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return AlignLeft, fmt.Errorf("unknown alignment %q", s)
	}
}

// FontSpec names a font file and the pixel size to render it at.
//
// Name is either a path to a TrueType/OpenType file or a bare file name
// such as "DejaVuSans.ttf" that is resolved against the font directories.
type FontSpec struct {
	Name string
	Size float64
}

// TextStyle describes how one block of text is drawn onto the band.
type TextStyle struct {
	Font  FontSpec
	Color color.NRGBA

	// Origin is the top-left corner of the text block in band coordinates.
	Origin image.Point

	Align Align

	// LineSpacing is the extra gap in pixels between consecutive lines.
	LineSpacing int
}

// Watermark is a fixed string drawn on every caption band.
type Watermark struct {
	Text  string
	Style TextStyle
}

// Style is a complete rendering preset for the caption band.
//
// It gathers the colors, fonts, offsets and text policy that decide what
// ends up in the band below the source image.
type Style struct {
	// Name identifies the preset (see PresetDeeplili, PresetPlain).
	Name string

	// Background fills the whole band before any text is drawn.
	Background color.NRGBA

	// Caption is the style used for the prompt text.
	Caption TextStyle

	// Watermark is drawn after the caption. Nil disables it.
	Watermark *Watermark

	// TrimSuffix is the number of characters unconditionally dropped from
	// the end of the caption text.
	TrimSuffix int

	// MaxLength caps the caption after trimming. Zero means no cap.
	MaxLength int

	// Ellipsis is appended when the caption was capped.
	Ellipsis string

	// WrapWidth is the column width used to fill the caption. Zero
	// disables wrapping and the caption is drawn as given.
	WrapWidth int

	// Hyphenate enables locale-aware word breaking while wrapping.
	Hyphenate bool

	// Locale selects the hyphenation rules, e.g. "es_ES".
	Locale string

	// Quote encloses the wrapped caption in double quotes.
	Quote bool
}

// Colors of the deeplili preset.
var (
	Brown      = color.NRGBA{R: 50, G: 1, B: 47, A: 255}
	LightWhite = color.NRGBA{R: 226, G: 223, B: 208, A: 255}
	Orange     = color.NRGBA{R: 249, G: 115, B: 0, A: 255}
	// TransparentWhite is white with zero alpha, the background of the plain preset.
	TransparentWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 0}
	Black            = color.NRGBA{A: 255}
)

// DeepliliStyle returns the branded preset: dark brown band, quoted and
// hyphenated caption and the deeplili.co watermark.
func DeepliliStyle() Style {
	return Style{
		Name:       PresetDeeplili,
		Background: Brown,
		Caption: TextStyle{
			Font:        FontSpec{Name: "DejaVuSans.ttf", Size: 22},
			Color:       LightWhite,
			Origin:      image.Pt(10, 10),
			Align:       AlignCenter,
			LineSpacing: 4,
		},
		Watermark: &Watermark{
			Text: "deeplili.co",
			Style: TextStyle{
				Font:        FontSpec{Name: "Ubuntu-B.ttf", Size: 32},
				Color:       Orange,
				Origin:      image.Pt(345, 120),
				LineSpacing: 4,
			},
		},
		TrimSuffix: 10,
		MaxLength:  150,
		Ellipsis:   "...",
		WrapWidth:  39,
		Hyphenate:  true,
		Locale:     "es_ES",
		Quote:      true,
	}
}

// PlainStyle returns the minimal preset: the caption verbatim in black at
// the band origin on a transparent white background.
func PlainStyle() Style {
	return Style{
		Name:       PresetPlain,
		Background: TransparentWhite,
		Caption: TextStyle{
			Font:        FontSpec{Name: "DejaVuSans.ttf", Size: 22},
			Color:       Black,
			Origin:      image.Pt(0, 0),
			Align:       AlignLeft,
			LineSpacing: 4,
		},
	}
}

var builtinStyles = map[string]func() Style{
	PresetDeeplili: DeepliliStyle,
	PresetPlain:    PlainStyle,
}

// BuiltinStyle returns the built-in preset with the given name.
func BuiltinStyle(name string) (Style, bool) {
	fn, ok := builtinStyles[name]
	if !ok {
		return Style{}, false
	}
	return fn(), true
}

// BuiltinStyleNames lists the built-in presets in a stable order.
func BuiltinStyleNames() []string {
	names := make([]string, 0, len(builtinStyles))
	for name := range builtinStyles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Opaque reports whether the band background is fully opaque.
func (s *Style) Opaque() bool {
	return s.Background.A == 0xff
}

// PrepareCaption applies the trim and length policy to raw caption text.
//
// Lengths are counted in characters (runes). Text of TrimSuffix characters
// or fewer becomes empty. Wrapping is not applied here.
func (s *Style) PrepareCaption(text string) string {
	runes := []rune(text)
	if s.TrimSuffix > 0 {
		if len(runes) <= s.TrimSuffix {
			runes = nil
		} else {
			runes = runes[:len(runes)-s.TrimSuffix]
		}
	}
	if s.MaxLength > 0 && len(runes) > s.MaxLength {
		return string(runes[:s.MaxLength]) + s.Ellipsis
	}
	return string(runes)
}
