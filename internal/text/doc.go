// Package text wraps caption text to a column width with locale-aware
// hyphenation.
//
// # Hyphenation
//
// A Hyphenator returns the rune offsets where a word may be broken:
//
//	hy, err := text.NewHyphenator("es_ES", "")   // built-in Spanish rules
//	hy, err := text.NewHyphenator("de_DE", "/usr/share/hyphen/hyph_de_DE.dic")
//
// The built-in Spanish rules follow the syllabification of the language
// (diphthongs and hiatus, ch/ll/rr digraphs, inseparable consonant
// clusters such as bl or tr). Other languages are supported through
// pattern dictionaries in TeX or libhyphen format.
//
// # Wrapping
//
//	lines := text.Wrap("La constitución de los pueblos", 12, hy)
//	// ["La constitu-", "ción de los", "pueblos"]
package text
