package lang

import (
	"regexp"
	"strings"
)

// Tokenizer splits text into sentences.
type Tokenizer interface {
	// Name identifies the strategy, for logging.
	Name() string

	// Sentences returns the trimmed sentences of text, in order.
	// Trailing text without a terminator is kept as a final sentence.
	Sentences(text string) []string
}

// DefaultTokenizer returns the generic sentence tokenizer used when no
// dedicated strategy matches.
func DefaultTokenizer() Tokenizer { return defaultTokenizer{} }

var defaultSplitter = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?]+)`)

// defaultTokenizer splits on ASCII sentence terminators.
type defaultTokenizer struct{}

func (defaultTokenizer) Name() string { return "default" }

func (defaultTokenizer) Sentences(text string) []string {
	return splitWith(defaultSplitter, text)
}

// koreanTokenizer splits Korean text. Korean prose uses ASCII terminators
// but also fullwidth punctuation in formal documents.
type koreanTokenizer struct{}

var koreanSplitter = regexp.MustCompile(`(?m)(?U)([^.!?。！？]+[.!?。！？]+)`)

func (koreanTokenizer) Name() string { return "korean" }

func (koreanTokenizer) Sentences(text string) []string {
	return splitWith(koreanSplitter, text)
}

// cjkTokenizer splits Chinese and Japanese text on fullwidth terminators,
// accepting ASCII ones for mixed-script documents.
type cjkTokenizer struct{}

var cjkSplitter = regexp.MustCompile(`(?m)(?U)([^。！？．.!?]+[。！？．.!?]+)`)

func (cjkTokenizer) Name() string { return "cjk" }

func (cjkTokenizer) Sentences(text string) []string {
	return splitWith(cjkSplitter, text)
}

func splitWith(splitter *regexp.Regexp, text string) []string {
	matches := splitter.FindAllStringIndex(text, -1)
	var out []string
	last := 0
	for _, m := range matches {
		if s := strings.TrimSpace(text[m[0]:m[1]]); s != "" {
			out = append(out, s)
		}
		last = m[1]
	}
	if tail := strings.TrimSpace(text[last:]); tail != "" {
		out = append(out, tail)
	}
	return out
}
