package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/newsbrief/internal/textproc"
)

func TestTextRank_SingleSentenceFails(t *testing.T) {
	_, err := TextRank("Just one sentence with no ending", 100)
	assert.ErrorIs(t, err, errTooFewSentences)
}

func TestTextRank_ApproachesTargetInDocumentOrder(t *testing.T) {
	text := articleText(12)

	got, err := TextRank(text, 100)
	require.NoError(t, err)

	words := len(strings.Fields(got))
	assert.InDelta(t, 100, words, 14)

	last := -1
	for _, s := range textproc.Sentences(got) {
		idx := strings.Index(text, s)
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, last)
		last = idx
	}
}

func TestTextRank_CentralSentenceRanksFirst(t *testing.T) {
	text := "Flooding closed the river bridge and the harbour road. " +
		"The river bridge flooding stranded commuters near the harbour road. " +
		"Officials said the harbour road and river bridge reopen after flooding recedes. " +
		"A bakery won a local award."

	got, err := TextRank(text, 12)
	require.NoError(t, err)
	assert.NotContains(t, got, "bakery")
	assert.NotEmpty(t, got)
}

func TestPageRank_UniformWithoutEdges(t *testing.T) {
	scores := pageRank([][]float64{{0, 0}, {0, 0}})
	assert.InDelta(t, scores[0], scores[1], 1e-9)
}
