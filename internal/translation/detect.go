package translation

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

// Language is the display label of a language.
type Language string

const (
	Japanese Language = "日本語"
	English  Language = "英語"
)

// Direction is a detected source language and its translation target.
type Direction struct {
	Source Language
	Target Language
}

// japaneseScript covers CJK punctuation, hiragana, katakana, fullwidth and
// halfwidth forms, and the unified CJK ideographs.
var japaneseScript = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3000, Hi: 0x303f, Stride: 1},
		{Lo: 0x3040, Hi: 0x309f, Stride: 1},
		{Lo: 0x30a0, Hi: 0x30ff, Stride: 1},
		{Lo: 0x4e00, Hi: 0x9faf, Stride: 1},
		{Lo: 0xff00, Hi: 0xff9f, Stride: 1},
	},
}

// ContainsJapanese reports whether any rune of text is in a Japanese range.
// Chinese text is therefore also classified as Japanese.
func ContainsJapanese(text string) bool {
	return strings.ContainsFunc(text, func(r rune) bool {
		return unicode.Is(japaneseScript, r)
	})
}

// Detect returns Japanese→English for text containing Japanese characters
// and English→Japanese for everything else.
func Detect(text string) Direction {
	if ContainsJapanese(text) {
		return Direction{Source: Japanese, Target: English}
	}
	return Direction{Source: English, Target: Japanese}
}

// TextLength counts UTF-16 code units, so characters outside the BMP count
// as two.
func TextLength(text string) int {
	n := 0
	for _, r := range text {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
