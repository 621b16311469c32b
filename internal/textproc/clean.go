// Package textproc normalizes scraped article text and splits it into the
// sentence and word tokens the summarizers work with.
package textproc

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxInputLength is the ceiling, in characters, for text fed to the summarizers.
const MaxInputLength = 10000

var (
	whitespaceRe = regexp.MustCompile(`[\s\p{Z}\x{0085}\v]+`)
	asideRe      = regexp.MustCompile(`\[.*?\]|\(.*?\)`)
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	urlRe        = regexp.MustCompile(`\bhttps?://\S+|www\.\S+`)
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s.,;:!?'-]`)
)

// Clean strips markup remnants, bracketed asides, URLs and unusual symbols from
// text and collapses whitespace. The steps run in a fixed order. URLs are
// stripped again after symbol removal, since dropping a symbol can rejoin one.
func Clean(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = asideRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	text = disallowedRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Truncate caps text at MaxInputLength characters. The cut is a hard one and
// may land in the middle of a word.
func Truncate(text string) string {
	return TruncateTo(text, MaxInputLength)
}

// TruncateTo returns the first max characters (runes) of text.
func TruncateTo(text string, max int) string {
	if max < 0 {
		max = 0
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	n := 0
	for i := range text {
		if n == max {
			return text[:i]
		}
		n++
	}
	return text
}
