package text

import "strings"

// Wrap fills text into lines of at most width characters.
//
// Runs of whitespace, newlines included, collapse to single spaces. Words
// are placed greedily. When a word does not fit in the room left on the
// current line and hy is not nil, the longest hyphenation prefix that fits
// together with a trailing "-" stays on the line and the rest carries over.
// Words longer than width that cannot be hyphenated are broken at the
// width. A nil hy disables hyphenation.
//
// Lengths are counted in runes.
func Wrap(text string, width int, hy Hyphenator) []string {
	words := strings.Fields(text)
	if width <= 0 {
		if len(words) == 0 {
			return nil
		}
		return []string{strings.Join(words, " ")}
	}

	var (
		lines []string
		line  []rune
	)
	flush := func() {
		if len(line) > 0 {
			lines = append(lines, string(line))
			line = line[:0]
		}
	}

	for _, w := range words {
		word := []rune(w)
		for len(word) > 0 {
			sep := 0
			if len(line) > 0 {
				sep = 1
			}

			if len(line)+sep+len(word) <= width {
				if sep == 1 {
					line = append(line, ' ')
				}
				line = append(line, word...)
				break
			}

			room := width - len(line) - sep
			if head, tail, ok := splitHyphenated(word, room, hy); ok {
				if sep == 1 {
					line = append(line, ' ')
				}
				line = append(line, head...)
				line = append(line, '-')
				flush()
				word = tail
				continue
			}

			if len(word) > width {
				// too long for any line: fill what is left and break hard
				if room > 0 {
					if sep == 1 {
						line = append(line, ' ')
					}
					line = append(line, word[:room]...)
					word = word[room:]
				}
				flush()
				continue
			}

			flush()
		}
	}
	flush()

	return lines
}

// Fill is Wrap joined with newlines.
func Fill(text string, width int, hy Hyphenator) string {
	return strings.Join(Wrap(text, width, hy), "\n")
}

// splitHyphenated picks the longest prefix of word ending at a hyphenation
// point such that prefix plus "-" fits in room.
func splitHyphenated(word []rune, room int, hy Hyphenator) (head, tail []rune, ok bool) {
	if hy == nil || room < 2 {
		return nil, nil, false
	}
	best := 0
	for _, p := range hy.Hyphenate(string(word)) {
		if p > 0 && p < len(word) && p+1 <= room && p > best {
			best = p
		}
	}
	if best == 0 {
		return nil, nil, false
	}
	return word[:best], word[best:], true
}
