package textproc

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokens are words, numbers, English clitics ("'s", "'ll") and single
// punctuation marks, roughly the way a treebank tokenizer splits English.
// Punctuation counts as a token; summary length limits are measured in tokens.
var tokenRe = regexp.MustCompile(`'(?:s|re|ve|ll|d|m|t)\b|[\p{L}\p{N}_]+(?:[-.,][\p{L}\p{N}_]+)*|\.\.\.|[^\s\p{L}\p{N}_]`)

// Words splits text into tokens.
func Words(text string) []string {
	return tokenRe.FindAllString(text, -1)
}

// WordCount returns len(Words(text)).
func WordCount(text string) int {
	return len(tokenRe.FindAllStringIndex(text, -1))
}

// FirstWords keeps the first n tokens of text, joined by single spaces.
func FirstWords(text string, n int) string {
	words := Words(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

var boundaryRe = regexp.MustCompile(`[.!?]+['")\]]*\s+`)

var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true, "sr": true,
	"jr": true, "st": true, "vs": true, "etc": true, "e.g": true, "i.e": true,
	"inc": true, "ltd": true, "co": true, "corp": true, "gen": true, "gov": true,
	"sen": true, "rep": true, "lt": true, "col": true, "capt": true, "sgt": true,
	"no": true, "fig": true, "approx": true, "u.s": true, "u.k": true, "u.n": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true, "jul": true,
	"aug": true, "sep": true, "sept": true, "oct": true, "nov": true, "dec": true,
}

// Sentences splits text on terminal punctuation followed by whitespace and a
// capitalized word, digit or opening quote. Periods after common abbreviations
// and single-letter initials do not end a sentence.
func Sentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for _, loc := range boundaryRe.FindAllStringIndex(text, -1) {
		next, _ := utf8.DecodeRuneInString(text[loc[1]:])
		if !opensSentence(next) {
			continue
		}
		punct := text[loc[0]:loc[1]]
		if strings.HasPrefix(punct, ".") && !strings.HasPrefix(punct, "..") && endsWithAbbreviation(text[start:loc[0]]) {
			continue
		}
		if s := strings.TrimSpace(text[start:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

func opensSentence(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsDigit(r) || r == '\'' || r == '"' || r == '('
}

func endsWithAbbreviation(s string) bool {
	word := s
	if i := strings.LastIndexAny(s, " \t\n"); i >= 0 {
		word = s[i+1:]
	}
	word = strings.TrimLeft(word, "'\"([")
	if utf8.RuneCountInString(word) == 1 {
		r, _ := utf8.DecodeRuneInString(word)
		return unicode.IsLetter(r)
	}
	return abbreviations[strings.ToLower(word)]
}

var termRe = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Terms returns the lowercase index terms of text: runs of two or more word
// characters, with English stop words removed.
func Terms(text string) []string {
	matches := termRe.FindAllString(strings.ToLower(text), -1)
	terms := matches[:0]
	for _, m := range matches {
		if !stopWords[m] {
			terms = append(terms, m)
		}
	}
	return terms
}
