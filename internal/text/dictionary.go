package text

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/speedata/hyphenation"
)

// PatternHyphenator hyphenates with Liang patterns loaded from a
// dictionary file.
type PatternHyphenator struct {
	lang *hyphenation.Lang
}

// LoadDictionary reads a hyphenation dictionary from path.
//
// Both the TeX pattern format (hyph-es.pat.txt, optionally wrapped in
// \patterns{...}) and the libhyphen format used by LibreOffice and
// PyHyphen (hyph_es_ES.dic, with a charset line and LEFTHYPHENMIN /
// RIGHTHYPHENMIN headers) are accepted.
func LoadDictionary(path string) (*PatternHyphenator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hyphenation dictionary: %w", err)
	}
	defer f.Close()

	h, err := ParseDictionary(f)
	if err != nil {
		return nil, fmt.Errorf("hyphenation dictionary %s: %w", path, err)
	}
	return h, nil
}

// ParseDictionary reads hyphenation patterns from r.
func ParseDictionary(r io.Reader) (*PatternHyphenator, error) {
	var (
		patterns     strings.Builder
		leftMin      = DefaultLeftMin
		rightMin     = DefaultRightMin
		first        = true
		inExceptions bool
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			first = false
			// libhyphen files start with the charset, e.g. "UTF-8"
			if line != "" && strings.ToLower(line) != line {
				continue
			}
		}
		if i := strings.IndexByte(line, '%'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}

		if inExceptions {
			if strings.Contains(line, "}") {
				inExceptions = false
			}
			continue
		}
		if strings.HasPrefix(line, `\hyphenation`) {
			inExceptions = !strings.Contains(line, "}")
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "LEFTHYPHENMIN", "RIGHTHYPHENMIN":
			if len(fields) < 2 {
				return nil, fmt.Errorf("%s without a value", fields[0])
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fields[0], err)
			}
			if fields[0] == "LEFTHYPHENMIN" {
				leftMin = n
			} else {
				rightMin = n
			}
			continue
		case "COMPOUNDLEFTHYPHENMIN", "COMPOUNDRIGHTHYPHENMIN", "NOHYPHEN", "NEXTLEVEL":
			continue
		}

		for _, field := range fields {
			field = strings.TrimPrefix(field, `\patterns{`)
			field = strings.Trim(field, "{}")
			// non-standard libhyphen patterns carry a replacement after '/'
			if i := strings.IndexByte(field, '/'); i >= 0 {
				field = field[:i]
			}
			if field == "" || strings.HasPrefix(field, `\`) {
				continue
			}
			patterns.WriteString(field)
			patterns.WriteByte('\n')
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if patterns.Len() == 0 {
		return nil, fmt.Errorf("no patterns found")
	}

	lang, err := hyphenation.New(strings.NewReader(patterns.String()))
	if err != nil {
		return nil, err
	}
	lang.Leftmin = leftMin
	lang.Rightmin = rightMin

	return &PatternHyphenator{lang: lang}, nil
}

// Hyphenate implements Hyphenator.
func (p *PatternHyphenator) Hyphenate(word string) []int {
	var out []int
	letterRuns(word, func(offset int, run []rune) {
		for _, pos := range p.lang.Hyphenate(string(run)) {
			if pos <= 0 || pos >= len(run) {
				continue
			}
			out = append(out, offset+pos)
		}
	})
	return out
}
