// Package lang selects a sentence tokenization strategy for extracted text.
//
// Detection is a capability: callers construct either the real detector or
// the no-op one, and selection degrades to the default tokenizer whenever
// detection is unavailable or unsure. Selection never fails.
package lang

import (
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
)

// Language identifies a detected language for tokenizer selection.
type Language string

const (
	LangUnknown  Language = ""
	LangKorean   Language = "korean"
	LangChinese  Language = "chinese"
	LangJapanese Language = "japanese"
	LangOther    Language = "other"
)

// sampleLen caps how many characters are fed to the detector.
const sampleLen = 1000

// Detector identifies the language of a text sample.
type Detector interface {
	Detect(text string) Language
}

// NewDetector returns the real language detector.
func NewDetector() Detector { return trigramDetector{} }

// NewNoopDetector returns a detector that never identifies anything,
// forcing the default tokenizer.
func NewNoopDetector() Detector { return noopDetector{} }

// trigramDetector wraps whatlanggo's trigram-based detection.
type trigramDetector struct{}

func (trigramDetector) Detect(text string) Language {
	if text == "" {
		return LangUnknown
	}
	info := whatlanggo.Detect(sample(text))
	if !info.IsReliable() {
		return LangUnknown
	}
	switch info.Lang {
	case whatlanggo.Kor:
		return LangKorean
	case whatlanggo.Cmn:
		return LangChinese
	case whatlanggo.Jpn:
		return LangJapanese
	}
	return LangOther
}

// sample returns the first sampleLen characters of text.
func sample(text string) string {
	if utf8.RuneCountInString(text) <= sampleLen {
		return text
	}
	n := 0
	for i := range text {
		if n == sampleLen {
			return text[:i]
		}
		n++
	}
	return text
}

type noopDetector struct{}

func (noopDetector) Detect(string) Language { return LangUnknown }

// SelectTokenizer maps detected language to a sentence tokenizer. Korean,
// Chinese and Japanese get dedicated strategies; everything else, including
// unknown and unreliable detections, gets the default.
func SelectTokenizer(d Detector, text string) Tokenizer {
	if d == nil {
		return DefaultTokenizer()
	}
	switch d.Detect(text) {
	case LangKorean:
		return koreanTokenizer{}
	case LangChinese, LangJapanese:
		return cjkTokenizer{}
	default:
		return DefaultTokenizer()
	}
}
