package text

import (
	"fmt"
	"strings"
	"unicode"
)

// Hyphenator finds the places where a word may be broken across lines.
//
// Hyphenate returns rune offsets into word, in increasing order; an offset
// p means the word may be split into word[:p] + "-" and word[p:].
// Non-letter characters are never split and never receive a break next to
// them.
type Hyphenator interface {
	Hyphenate(word string) []int
}

// Minimum number of characters kept on each side of a break.
const (
	DefaultLeftMin  = 2
	DefaultRightMin = 2
)

// NewHyphenator returns the hyphenator for locale.
//
// When dictionary is not empty, patterns are loaded from that file
// (TeX .pat.txt or libhyphen .dic) regardless of locale. Otherwise the
// built-in rules are used, which exist for Spanish only ("es", "es_ES",
// "es-ES", ...). Any other locale without a dictionary is an error.
func NewHyphenator(locale, dictionary string) (Hyphenator, error) {
	if dictionary != "" {
		h, err := LoadDictionary(dictionary)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
	if isSpanish(locale) {
		return NewSpanish(), nil
	}
	return nil, fmt.Errorf("no built-in hyphenation rules for locale %q, configure a dictionary", locale)
}

func isSpanish(locale string) bool {
	l := strings.ToLower(locale)
	return l == "es" || strings.HasPrefix(l, "es_") || strings.HasPrefix(l, "es-")
}

// letterRuns calls fn for every maximal run of letters in word with the
// rune offset of the run and its lowercase runes.
func letterRuns(word string, fn func(offset int, run []rune)) {
	runes := []rune(word)
	start := -1
	for i := 0; i <= len(runes); i++ {
		if i < len(runes) && unicode.IsLetter(runes[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			run := make([]rune, i-start)
			for j, r := range runes[start:i] {
				run[j] = unicode.ToLower(r)
			}
			fn(start, run)
			start = -1
		}
	}
}

// Spanish hyphenates words with the Spanish syllabification rules.
type Spanish struct {
	LeftMin  int
	RightMin int
}

// NewSpanish returns a Spanish hyphenator with the default minimums.
func NewSpanish() *Spanish {
	return &Spanish{LeftMin: DefaultLeftMin, RightMin: DefaultRightMin}
}

// Hyphenate implements Hyphenator.
func (s *Spanish) Hyphenate(word string) []int {
	var out []int
	letterRuns(word, func(offset int, run []rune) {
		for _, p := range spanishSyllableBreaks(run) {
			if p < s.LeftMin || len(run)-p < s.RightMin {
				continue
			}
			out = append(out, offset+p)
		}
	})
	return out
}

// Syllables splits a single word into its syllables, ignoring the
// minimums. Used for diagnostics and tests.
func (s *Spanish) Syllables(word string) []string {
	runes := []rune(word)
	lower := []rune(strings.ToLower(word))
	if len(lower) != len(runes) {
		lower = runes
	}
	var parts []string
	prev := 0
	for _, p := range spanishSyllableBreaks(lower) {
		parts = append(parts, string(runes[prev:p]))
		prev = p
	}
	return append(parts, string(runes[prev:]))
}

type phone struct {
	start  int
	vowel  bool
	strong bool
	single rune // the letter when the unit is one rune, 0 for digraphs
}

func isSpanishVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'á', 'é', 'í', 'ó', 'ú', 'ü':
		return true
	}
	return false
}

// Accented í and ú break diphthongs, so they count as strong.
func isStrongVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'o', 'á', 'é', 'í', 'ó', 'ú':
		return true
	}
	return false
}

func isFrontVowel(r rune) bool {
	return r == 'e' || r == 'i' || r == 'é' || r == 'í'
}

// phones groups the lowercase letters of w into vowel and consonant units.
// ch, ll and rr are single consonants, as are qu and gu before e or i.
func phones(w []rune) []phone {
	var units []phone
	for i := 0; i < len(w); {
		r := w[i]
		var next rune
		if i+1 < len(w) {
			next = w[i+1]
		}
		switch {
		case (r == 'c' && next == 'h') || (r == 'l' && next == 'l') || (r == 'r' && next == 'r'):
			units = append(units, phone{start: i})
			i += 2
		case (r == 'q' || r == 'g') && next == 'u' && i+2 < len(w) && isFrontVowel(w[i+2]):
			units = append(units, phone{start: i})
			i += 2
		case r == 'y':
			// y is a vowel at the end of a word or before a consonant
			vowel := i+1 >= len(w) || !isSpanishVowel(next)
			units = append(units, phone{start: i, vowel: vowel, single: r})
			i++
		case isSpanishVowel(r):
			units = append(units, phone{start: i, vowel: true, strong: isStrongVowel(r), single: r})
			i++
		default:
			units = append(units, phone{start: i, single: r})
			i++
		}
	}
	return units
}

// inseparable reports whether two consonants start a syllable together
// (bl, br, cl, cr, dr, fl, fr, gl, gr, kl, kr, pl, pr, tr).
func inseparable(a, b phone) bool {
	if a.single == 0 || b.single == 0 {
		return false
	}
	switch a.single {
	case 'b', 'c', 'f', 'g', 'k', 'p':
		return b.single == 'l' || b.single == 'r'
	case 'd', 't':
		return b.single == 'r'
	}
	return false
}

// spanishSyllableBreaks returns the rune offsets of syllable boundaries in
// a lowercase word made of letters only.
func spanishSyllableBreaks(w []rune) []int {
	units := phones(w)

	i := 0
	for i < len(units) && !units[i].vowel {
		i++
	}
	if i == len(units) {
		return nil
	}

	var breaks []int
	for {
		// nucleus, split on hiatus
		j := i
		for j+1 < len(units) && units[j+1].vowel {
			if units[j].strong && units[j+1].strong {
				breaks = append(breaks, units[j+1].start)
			}
			j++
		}

		k := j + 1
		for k < len(units) && !units[k].vowel {
			k++
		}
		if k >= len(units) {
			// trailing consonants belong to the last syllable
			break
		}

		cons := units[j+1 : k]
		switch n := len(cons); {
		case n == 1:
			breaks = append(breaks, cons[0].start)
		case n == 2:
			if inseparable(cons[0], cons[1]) {
				breaks = append(breaks, cons[0].start)
			} else {
				breaks = append(breaks, cons[1].start)
			}
		case n == 3:
			if inseparable(cons[1], cons[2]) {
				breaks = append(breaks, cons[1].start)
			} else {
				breaks = append(breaks, cons[2].start)
			}
		default:
			breaks = append(breaks, cons[2].start)
		}
		i = k
	}
	return breaks
}
