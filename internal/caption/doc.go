// Package caption renders the caption band placed below each source image.
//
// A Renderer is built once per run from a model.Style and a FontLoader:
//
//	fonts := caption.NewFontLoader(settings.FontDirs...)
//	r, err := caption.NewRenderer(model.DeepliliStyle(), fonts, nil)
//	if err != nil {
//	    // a configured font could not be found or parsed
//	}
//	band, err := r.Render(promptText, image.Pt(width, bandHeight))
//
// Font names are resolved like a desktop font lookup: a path is used as
// is, a bare file name ("DejaVuSans.ttf") is searched for in the font
// directories.
package caption
