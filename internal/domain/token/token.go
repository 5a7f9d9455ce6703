// Package token splits document text into normalized word tokens.
package token

import (
	"iter"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tokenizer turns text into lowercase letter-only tokens.
// A token is a maximal run of unicode letters; every other rune
// (space, punctuation, digit, symbol, invalid UTF-8) separates tokens.
type Tokenizer struct {
	foldDiacritics bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithDiacriticFolding strips combining marks before scanning ("Café" -> "cafe").
func WithDiacriticFolding() Option {
	return func(t *Tokenizer) { t.foldDiacritics = true }
}

// New creates a Tokenizer.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{}
	for _, o := range opts {
		o(t)
	}
	return t
}

var defaultTokenizer = New()

// Default returns the tokenizer used by document.Document.Words.
func Default() *Tokenizer { return defaultTokenizer }

// FoldsDiacritics reports whether combining marks are stripped.
func (t *Tokenizer) FoldsDiacritics() bool { return t.foldDiacritics }

// Tokens returns a lazy sequence of tokens in order of appearance.
// Every range over the sequence rescans text from the start.
func (t *Tokenizer) Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		src := text
		if t.foldDiacritics {
			src = fold(src)
		}

		start := -1
		for i, r := range src {
			if unicode.IsLetter(r) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				if !yield(strings.ToLower(src[start:i])) {
					return
				}
				start = -1
			}
		}
		if start >= 0 {
			yield(strings.ToLower(src[start:]))
		}
	}
}

// Collect materializes all tokens of text.
func (t *Tokenizer) Collect(text string) []string {
	return slices.Collect(t.Tokens(text))
}

// fold decomposes text, drops nonspacing marks and recomposes it.
// The transformer chain is stateful, so one is built per call.
func fold(text string) string {
	tr := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(tr, text)
	if err != nil {
		return text
	}
	return out
}
