// Package quest parses FTB-Quests SNBT chapter and language files into the
// quests document consumed by the browsing application, and harvests the
// icon working set that drives atlas packing.
//
// SNBT is scanned with field-level patterns and balanced-delimiter
// extraction rather than a full grammar: quest files in the wild carry
// vendor extensions and loose formatting, and the pipeline only needs a
// fixed set of fields.
package quest

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

var patternCache sync.Map // pattern → *regexp.Regexp

func cached(pattern string) *regexp.Regexp {
	if v, ok := patternCache.Load(pattern); ok {
		return v.(*regexp.Regexp)
	}
	re := regexp.MustCompile(pattern)
	patternCache.Store(pattern, re)
	return re
}

// unescape decodes SNBT string escapes. Files carry newlines both as
// double-escaped and single-escaped sequences; the double form must be
// handled first.
func unescape(s string) string {
	s = strings.ReplaceAll(s, `\\n`, "\n")
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	s = strings.ReplaceAll(s, `\t`, "\t")
	return s
}

// stringField returns the unescaped value of a quoted string field.
func stringField(block, field string) (string, bool) {
	re := cached(`\b` + regexp.QuoteMeta(field) + `\s*:\s*"((?:[^"\\]|\\.)*)"`)
	m := re.FindStringSubmatch(block)
	if m == nil {
		return "", false
	}
	return unescape(m[1]), true
}

// numField returns a numeric field value, tolerating the d/L/l/f type
// suffixes SNBT appends.
func numField(block, field string) (float64, bool) {
	re := cached(`\b` + regexp.QuoteMeta(field) + `\s*:\s*([-\d.]+)[dLlf]?`)
	m := re.FindStringSubmatch(block)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// topBlocks extracts the top-level {...} blocks of text, bodies only.
func topBlocks(text string) []string {
	return balancedSpans(text, '{', '}')
}

func balancedSpans(text string, open, close byte) []string {
	var spans []string
	depth, start := 0, -1
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case open:
			if depth == 0 {
				start = i
			}
			depth++
		case close:
			depth--
			if depth == 0 && start != -1 {
				spans = append(spans, text[start+1:i])
				start = -1
			}
		}
	}
	return spans
}

// inlineList returns the body of a `field: [...]` list, or "".
func inlineList(block, field string) string {
	re := cached(`\b` + regexp.QuoteMeta(field) + `\s*:\s*\[`)
	loc := re.FindStringIndex(block)
	if loc == nil {
		return ""
	}
	return balancedFrom(block, loc[1]-1, '[', ']')
}

// balancedFrom returns the body of the balanced span opening at start.
func balancedFrom(text string, start int, open, close byte) string {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start+1 : i]
			}
		}
	}
	return ""
}

// listBlocks returns the {...} blocks inside a list field.
func listBlocks(block, field string) []string {
	return topBlocks(inlineList(block, field))
}

var quotedString = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)

// listStrings extracts the quoted strings of an SNBT list body.
func listStrings(text string) []string {
	var out []string
	for _, m := range quotedString.FindAllStringSubmatch(text, -1) {
		out = append(out, unescape(m[1]))
	}
	return out
}

// nestedBlock returns the body of a `field: {...}` block, or "".
func nestedBlock(block, field string) (string, bool) {
	re := cached(`\b` + regexp.QuoteMeta(field) + `\s*:\s*\{`)
	loc := re.FindStringIndex(block)
	if loc == nil {
		return "", false
	}
	return balancedFrom(block, loc[1]-1, '{', '}'), true
}

// normalizeEOL strips Windows and bare-CR line endings.
func normalizeEOL(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
