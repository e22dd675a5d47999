package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokenizer splits page text into search tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// ScriptSegmenter splits NFKC-normalized text into runs of one character
// class: Han, Hiragana, Katakana or other letters and digits. Whitespace
// separates runs and is dropped; every other rune is a token of its own.
//
// segment() in the shipped segmenter.js implements the same rules, so query
// tokens hash to the same filter positions as page tokens.
type ScriptSegmenter struct{}

var _ Tokenizer = ScriptSegmenter{}

type charClass uint8

const (
	classSpace charClass = iota
	classOther
	classHan
	classHiragana
	classKatakana
	classWord
)

func classify(r rune) charClass {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case r == '々' || r == '〆' || r == 'ヵ' || r == 'ヶ' || unicode.Is(unicode.Han, r):
		return classHan
	case unicode.Is(unicode.Hiragana, r):
		return classHiragana
	case r == 'ー' || unicode.Is(unicode.Katakana, r):
		return classKatakana
	case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
		return classWord
	default:
		return classOther
	}
}

// Tokenize implements Tokenizer.
func (ScriptSegmenter) Tokenize(text string) []string {
	text = norm.NFKC.String(text)

	var (
		tokens []string
		cur    strings.Builder
		prev   = classSpace
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		class := classify(r)
		// Combining marks stay with the run they modify.
		if unicode.IsMark(r) && prev != classSpace && prev != classOther {
			class = prev
		}
		if class != prev || class == classOther {
			flush()
		}
		if class != classSpace {
			cur.WriteRune(r)
		}
		prev = class
	}
	flush()
	return tokens
}
