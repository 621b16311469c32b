package summarize

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/deusflow/newsbrief/internal/textproc"
)

const (
	maxVocabulary    = 5000
	minSentenceWords = 10
	maxSentenceWords = 50
)

var (
	errNoSentences     = errors.New("no sentences within the length band")
	errEmptyVocabulary = errors.New("empty vocabulary; sentences only contain stop words")
)

// TFIDF picks the highest scoring sentences, by summed TF-IDF weight, without
// exceeding limit words and returns them in document order. Texts of three
// sentences or fewer are returned whole.
func TFIDF(text string, limit int) (string, error) {
	sentences := textproc.Sentences(text)
	if len(sentences) <= 3 {
		return strings.Join(sentences, " "), nil
	}

	kept := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if n := textproc.WordCount(s); n > minSentenceWords && n < maxSentenceWords {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return "", errNoSentences
	}

	scores, err := tfidfScores(kept, maxVocabulary)
	if err != nil {
		return "", err
	}

	order := make([]int, len(kept))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	var selected []int
	count := 0
	for _, i := range order {
		n := textproc.WordCount(kept[i])
		if count+n <= limit {
			selected = append(selected, i)
			count += n
		}
		if count >= limit {
			break
		}
	}
	sort.Ints(selected)

	parts := make([]string, len(selected))
	for j, i := range selected {
		parts[j] = kept[i]
	}
	return strings.Join(parts, " "), nil
}

// tfidfScores weights each document's terms with smoothed TF-IDF, normalizes
// every document vector to unit length and returns the per-document sum.
func tfidfScores(docs []string, maxFeatures int) ([]float64, error) {
	termCounts := make([]map[string]int, len(docs))
	totals := map[string]int{}
	for i, doc := range docs {
		counts := map[string]int{}
		for _, term := range textproc.Terms(doc) {
			counts[term]++
			totals[term]++
		}
		termCounts[i] = counts
	}
	if len(totals) == 0 {
		return nil, errEmptyVocabulary
	}

	vocabulary := limitVocabulary(totals, maxFeatures)

	df := map[string]int{}
	for _, counts := range termCounts {
		for term := range counts {
			if vocabulary[term] {
				df[term]++
			}
		}
	}

	n := float64(len(docs))
	scores := make([]float64, len(docs))
	for i, counts := range termCounts {
		weights := make([]float64, 0, len(counts))
		norm := 0.0
		for term, tf := range counts {
			if !vocabulary[term] {
				continue
			}
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1
			w := float64(tf) * idf
			weights = append(weights, w)
			norm += w * w
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for _, w := range weights {
			scores[i] += w / norm
		}
	}
	return scores, nil
}

// limitVocabulary keeps the maxFeatures most frequent terms, ties broken
// alphabetically.
func limitVocabulary(totals map[string]int, maxFeatures int) map[string]bool {
	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	if len(terms) > maxFeatures {
		sort.Slice(terms, func(a, b int) bool {
			if totals[terms[a]] != totals[terms[b]] {
				return totals[terms[a]] > totals[terms[b]]
			}
			return terms[a] < terms[b]
		})
		terms = terms[:maxFeatures]
	}

	vocabulary := make(map[string]bool, len(terms))
	for _, term := range terms {
		vocabulary[term] = true
	}
	return vocabulary
}
