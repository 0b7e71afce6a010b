// Package summarize produces extractive summaries of normalized document text.
package summarize

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/minsukang/bindery/internal/lang"
)

// DefaultFallbackLen bounds the truncation fallback when ranking is not
// possible, matching the historical summary snippet length.
const DefaultFallbackLen = 300

// boundaryWindow is the trailing fraction of a truncated input in which a
// sentence boundary is honored instead of a hard cut.
const boundaryWindow = 0.2

// Result is a summarization outcome. Truncated distinguishes the leading-text
// fallback from a real ranked summary, so callers can label it accordingly.
type Result struct {
	Text      string
	Truncated bool
}

// Summarizer ranks sentences of extracted text and returns the most salient
// ones in their original order.
type Summarizer struct {
	detector    lang.Detector
	fallbackLen int
	log         *slog.Logger
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithFallbackLen sets the character bound of the truncation fallback.
func WithFallbackLen(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.fallbackLen = n
		}
	}
}

// WithLogger sets the logger used for per-document debug output.
func WithLogger(log *slog.Logger) Option {
	return func(s *Summarizer) { s.log = log }
}

// New creates a Summarizer using the given language detection capability.
// A nil detector degrades to the default tokenizer for all input.
func New(detector lang.Detector, opts ...Option) *Summarizer {
	s := &Summarizer{
		detector:    detector,
		fallbackLen: DefaultFallbackLen,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize returns up to sentenceCount sentences of text, chosen by graph
// centrality and emitted in document order. Input longer than maxChars is
// truncated first, preferring a sentence boundary near the end of the
// window. Any ranking failure degrades to the truncation fallback; empty
// input returns an empty result.
func (s *Summarizer) Summarize(text string, sentenceCount, maxChars int) Result {
	if text == "" {
		return Result{}
	}
	if sentenceCount <= 0 {
		sentenceCount = 1
	}

	text = truncateToBudget(text, maxChars)

	tok := lang.SelectTokenizer(s.detector, text)
	sentences := tok.Sentences(text)

	scores, err := rankSentences(sentences)
	if err != nil {
		s.log.Debug("sentence ranking unavailable, falling back to truncation",
			"tokenizer", tok.Name(), "sentences", len(sentences), "reason", err)
		return Result{Text: leading(text, s.fallbackLen), Truncated: true}
	}

	if sentenceCount > len(sentences) {
		sentenceCount = len(sentences)
	}

	// Rank by score, ties broken by document position, then restore
	// document order among the selected.
	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		if scores[order[i]] != scores[order[j]] {
			return scores[order[i]] > scores[order[j]]
		}
		return order[i] < order[j]
	})
	selected := append([]int(nil), order[:sentenceCount]...)
	sort.Ints(selected)

	parts := make([]string, 0, len(selected))
	for _, idx := range selected {
		parts = append(parts, sentences[idx])
	}
	return Result{Text: strings.Join(parts, " ")}
}

// truncateToBudget cuts text to maxChars runes. If a period falls within the
// last 20% of the window the cut lands just after it, avoiding a mid-sentence
// ending; otherwise the hard cut stands.
func truncateToBudget(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	window := runes[:maxChars]
	floor := int(float64(maxChars) * (1 - boundaryWindow))
	for i := maxChars - 1; i >= floor; i-- {
		if window[i] == '.' {
			return string(window[:i+1])
		}
	}
	return string(window)
}

// leading returns the first n runes of text, trimmed.
func leading(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return strings.TrimSpace(string(runes))
}
