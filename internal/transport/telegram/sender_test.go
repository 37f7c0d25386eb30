package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/agriaid/internal/core"
	"github.com/sandevgo/agriaid/internal/service/assistant"
)

func TestSplitHTMLShortTextSingleChunk(t *testing.T) {
	t.Parallel()

	chunks := splitHTML("hello", 4000)

	require.Len(t, chunks, 1)
	assert.Equal(t, "hello", chunks[0])
}

func TestSplitHTMLPrefersNewlineBreaks(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", 50) + "\n" + strings.Repeat("b", 60)
	chunks := splitHTML(text, 80)

	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("a", 50), chunks[0])
	assert.Equal(t, strings.Repeat("b", 60), chunks[1])
}

func TestSplitHTMLHardCutWithoutNewline(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("x", 150)
	chunks := splitHTML(text, 100)

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[1], 50)
}

func TestRenderAnswerAppendsSourceLinks(t *testing.T) {
	t.Parallel()

	ans := &assistant.Answer{
		Text: "Plant after the last cold snap.",
		Sources: []core.SourceRecord{
			{Title: "DA Region CAR", URL: "https://car.da.gov.ph"},
			{Title: "Local extension office"},
		},
	}

	out := renderAnswer(ans)

	assert.Contains(t, out, "Plant after the last cold snap.")
	assert.Contains(t, out, "[DA Region CAR](https://car.da.gov.ph)")
	assert.Contains(t, out, "- Local extension office")
}

func TestRenderAnswerWithoutSources(t *testing.T) {
	t.Parallel()

	out := renderAnswer(&assistant.Answer{Text: "Just an answer."})

	assert.Equal(t, "Just an answer.", out)
}
