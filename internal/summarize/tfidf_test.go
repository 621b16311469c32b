package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/newsbrief/internal/textproc"
)

func TestTFIDF_ShortTextReturnedWhole(t *testing.T) {
	text := "The council approved the budget. Residents will vote next month."

	got, err := TFIDF(text, 100)
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestTFIDF_RespectsLimitAndDocumentOrder(t *testing.T) {
	text := articleText(20)

	got, err := TFIDF(text, 100)
	require.NoError(t, err)
	assert.LessOrEqual(t, textproc.WordCount(got), 100)
	assert.NotEmpty(t, got)

	last := -1
	for _, s := range textproc.Sentences(got) {
		idx := strings.Index(text, s)
		require.GreaterOrEqual(t, idx, 0, "sentence %q not from input", s)
		assert.Greater(t, idx, last, "sentences out of document order")
		last = idx
	}
}

func TestTFIDF_PrefersDistinctiveSentences(t *testing.T) {
	text := "Filler words repeat here again and again without any real story at all today. " +
		"Filler words repeat here again and again without any real story at all now. " +
		"Filler words repeat here again and again without any real story at all still. " +
		"Volcanic eruption forced thousands of villagers to evacuate coastal settlements overnight quickly."

	got, err := TFIDF(text, 15)
	require.NoError(t, err)
	assert.Contains(t, got, "Volcanic eruption")
}

func TestTFIDF_SkipsSentencesOutsideLengthBand(t *testing.T) {
	text := "Short one. Another short. Tiny. Still small. Brief."

	_, err := TFIDF(text, 100)
	assert.ErrorIs(t, err, errNoSentences)
}

func TestTFIDF_StopWordsOnly(t *testing.T) {
	sentence := "It is the one that was there for us and we were all in it. "
	text := strings.Repeat(sentence, 4)

	_, err := TFIDF(text, 100)
	assert.ErrorIs(t, err, errEmptyVocabulary)
}

func TestLimitVocabulary(t *testing.T) {
	totals := map[string]int{"alpha": 3, "beta": 1, "gamma": 3, "delta": 2}

	vocab := limitVocabulary(totals, 3)
	assert.Equal(t, map[string]bool{"alpha": true, "gamma": true, "delta": true}, vocab)
}
