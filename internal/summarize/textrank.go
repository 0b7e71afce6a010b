package summarize

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

const (
	damping       = 0.85
	maxIterations = 50
	convergence   = 1e-6
)

var errNoSentences = errors.New("no sentences to rank")

// rankSentences scores sentences by graph centrality: sentences are nodes,
// edges are weighted by token overlap, and scores are the fixed point of a
// damped mutual-reinforcement iteration. Initialization, iteration order and
// the convergence criterion are all deterministic, so identical input always
// produces identical scores.
func rankSentences(sentences []string) ([]float64, error) {
	n := len(sentences)
	if n == 0 {
		return nil, errNoSentences
	}

	tokens := make([][]string, n)
	for i, s := range sentences {
		tokens[i] = tokenize(s)
	}

	// Symmetric similarity matrix and per-node edge weight sums.
	weights := make([][]float64, n)
	sums := make([]float64, n)
	for i := range weights {
		weights[i] = make([]float64, n)
	}
	connected := false
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := similarity(tokens[i], tokens[j])
			weights[i][j] = w
			weights[j][i] = w
			sums[i] += w
			sums[j] += w
			if w > 0 {
				connected = true
			}
		}
	}
	if !connected {
		return nil, errors.New("sentence graph has no edges")
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}

	next := make([]float64, n)
	for iter := 0; iter < maxIterations; iter++ {
		delta := 0.0
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				if j == i || weights[j][i] == 0 || sums[j] == 0 {
					continue
				}
				sum += scores[j] * weights[j][i] / sums[j]
			}
			next[i] = (1 - damping) + damping*sum
			delta += math.Abs(next[i] - scores[i])
		}
		copy(scores, next)
		if delta < convergence {
			break
		}
	}

	return scores, nil
}

// similarity is the TextRank overlap measure: shared tokens normalized by
// the log lengths of both sentences.
func similarity(a, b []string) float64 {
	if len(a) < 2 || len(b) < 2 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	overlap := 0
	seen := make(map[string]struct{}, len(b))
	for _, t := range b {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}
	return float64(overlap) / (math.Log(float64(len(a))) + math.Log(float64(len(b))))
}

func tokenize(s string) []string {
	return tokenPattern.FindAllString(strings.ToLower(s), -1)
}
