package caption

import (
	"fmt"
	"image"
	"image/draw"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/handiism/addprompt/internal/model"
	"github.com/handiism/addprompt/internal/text"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Renderer draws caption bands for one Style.
//
// Renderer is safe for concurrent use; drawing is serialised because font
// faces keep internal buffers.
type Renderer struct {
	style      model.Style
	hyphenator text.Hyphenator

	captionFace   font.Face
	watermarkFace font.Face

	mu sync.Mutex
}

// NewRenderer loads the faces needed by style.
//
// A missing font is an error: rendering without the configured faces is
// never attempted. When style asks for hyphenation and hy is nil, the
// built-in rules for style.Locale are used.
func NewRenderer(style model.Style, fonts *FontLoader, hy text.Hyphenator) (*Renderer, error) {
	r := &Renderer{style: style}

	face, err := fonts.Face(style.Caption.Font)
	if err != nil {
		return nil, fmt.Errorf("caption font: %w", err)
	}
	r.captionFace = face

	if style.Watermark != nil {
		face, err := fonts.Face(style.Watermark.Style.Font)
		if err != nil {
			return nil, fmt.Errorf("watermark font: %w", err)
		}
		r.watermarkFace = face
	}

	if style.Hyphenate {
		if hy == nil {
			hy, err = text.NewHyphenator(style.Locale, "")
			if err != nil {
				return nil, err
			}
		}
		r.hyphenator = hy
	}

	return r, nil
}

// Style returns the preset the renderer draws with.
func (r *Renderer) Style() model.Style {
	return r.style
}

// Layout returns the exact caption string that Render draws: trimmed,
// capped, wrapped and quoted according to the style.
func (r *Renderer) Layout(caption string) string {
	s := r.style.PrepareCaption(caption)
	if r.style.WrapWidth > 0 {
		s = text.Fill(s, r.style.WrapWidth, r.hyphenator)
	}
	if r.style.Quote {
		s = `"` + s + `"`
	}
	return s
}

// Render returns a band of exactly size filled with the style background,
// with the laid out caption and the watermark drawn on it.
func (r *Renderer) Render(caption string, size image.Point) (image.Image, error) {
	band := imaging.New(size.X, size.Y, r.style.Background)
	if band.Bounds().Empty() {
		return band, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	drawText(band, r.Layout(caption), r.captionFace, r.style.Caption)
	if wm := r.style.Watermark; wm != nil {
		drawText(band, wm.Text, r.watermarkFace, wm.Style)
	}
	return band, nil
}

// drawText draws a possibly multi-line string with its top-left corner at
// st.Origin. Lines advance by the font ascent plus st.LineSpacing and are
// aligned relative to the widest line. Glyphs outside dst are clipped.
func drawText(dst draw.Image, s string, face font.Face, st model.TextStyle) {
	lines := strings.Split(s, "\n")

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(st.Color),
		Face: face,
	}

	widths := make([]fixed.Int26_6, len(lines))
	var maxWidth fixed.Int26_6
	for i, line := range lines {
		widths[i] = d.MeasureString(line)
		if widths[i] > maxWidth {
			maxWidth = widths[i]
		}
	}

	ascent := face.Metrics().Ascent.Ceil()
	y := st.Origin.Y + ascent
	for i, line := range lines {
		x := fixed.I(st.Origin.X)
		switch st.Align {
		case model.AlignCenter:
			x += (maxWidth - widths[i]) / 2
		case model.AlignRight:
			x += maxWidth - widths[i]
		}
		d.Dot = fixed.Point26_6{X: x, Y: fixed.I(y)}
		d.DrawString(line)
		y += ascent + st.LineSpacing
	}
}
