package summarize

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/deusflow/newsbrief/internal/textproc"
)

const (
	damping       = 0.85
	maxIterations = 100
	convergence   = 1e-4
)

var errTooFewSentences = errors.New("input must have more than one sentence")

// TextRank ranks sentences with weighted PageRank over a word-overlap graph
// and extracts top sentences while doing so brings the total closer to words.
// The result keeps document order.
func TextRank(text string, words int) (string, error) {
	sentences := textproc.Sentences(text)
	if len(sentences) < 2 {
		return "", errTooFewSentences
	}

	terms := make([][]string, len(sentences))
	for i, s := range sentences {
		terms[i] = textproc.Terms(s)
	}

	scores := pageRank(similarityMatrix(terms))

	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	var selected []int
	length := 0
	for _, i := range order {
		n := len(strings.Fields(sentences[i]))
		if abs(words-length-n) > abs(words-length) {
			break
		}
		selected = append(selected, i)
		length += n
	}
	sort.Ints(selected)

	parts := make([]string, len(selected))
	for j, i := range selected {
		parts[j] = sentences[i]
	}
	return strings.Join(parts, " "), nil
}

// similarityMatrix scores each sentence pair by shared terms normalized by the
// log of both sentence lengths.
func similarityMatrix(terms [][]string) [][]float64 {
	sets := make([]map[string]bool, len(terms))
	for i, ts := range terms {
		sets[i] = make(map[string]bool, len(ts))
		for _, t := range ts {
			sets[i][t] = true
		}
	}

	weights := make([][]float64, len(terms))
	for i := range weights {
		weights[i] = make([]float64, len(terms))
	}
	for i := 0; i < len(terms); i++ {
		for j := i + 1; j < len(terms); j++ {
			denom := math.Log(float64(len(terms[i]))) + math.Log(float64(len(terms[j])))
			if len(terms[i]) == 0 || len(terms[j]) == 0 || denom <= 0 {
				continue
			}
			overlap := 0
			for t := range sets[i] {
				if sets[j][t] {
					overlap++
				}
			}
			w := float64(overlap) / denom
			weights[i][j] = w
			weights[j][i] = w
		}
	}
	return weights
}

func pageRank(weights [][]float64) []float64 {
	n := len(weights)
	outSum := make([]float64, n)
	for i, row := range weights {
		for _, w := range row {
			outSum[i] += w
		}
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1
	}
	next := make([]float64, n)
	for iter := 0; iter < maxIterations; iter++ {
		delta := 0.0
		for i := 0; i < n; i++ {
			rank := 0.0
			for j := 0; j < n; j++ {
				if weights[j][i] > 0 && outSum[j] > 0 {
					rank += weights[j][i] / outSum[j] * scores[j]
				}
			}
			next[i] = (1 - damping) + damping*rank
			delta = math.Max(delta, math.Abs(next[i]-scores[i]))
		}
		scores, next = next, scores
		if delta < convergence {
			break
		}
	}
	return scores
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
