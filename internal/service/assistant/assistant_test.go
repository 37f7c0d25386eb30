package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/agriaid/internal/core"
)

type fakeFuser struct {
	fused    *core.FusedContext
	err      error
	appended []core.Turn
}

func (f *fakeFuser) Fuse(_ context.Context, _ core.Query) (*core.FusedContext, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.fused != nil {
		return f.fused, nil
	}
	return &core.FusedContext{}, nil
}

func (f *fakeFuser) AppendTurn(sessionID, question, answer string) {
	if sessionID == "" {
		return
	}
	f.appended = append(f.appended, core.Turn{Question: question, Answer: answer})
}

type fakeGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

type fakeProber struct {
	connected bool
	err       error
}

func (f *fakeProber) Status(_ context.Context) (bool, error) { return f.connected, f.err }
func (f *fakeProber) Model() string                          { return "llama3.1:8b" }

func TestAsk(t *testing.T) {
	t.Parallel()

	fuser := &fakeFuser{fused: &core.FusedContext{
		Text: "=== PRICE DATA ===\nAverage price 23.50 PHP\n",
		Sources: []core.SourceRecord{
			{Title: "PSA", URL: "https://openstat.psa.gov.ph/px", Category: core.CategoryPrice},
		},
	}}
	gen := &fakeGenerator{response: "Palay averages 23.50 PHP per kilo in Benguet as of 2024."}

	a := New(fuser, gen, &fakeProber{}, 6000)

	answer, err := a.Ask(context.Background(), core.Query{
		Text:      "magkano ang palay sa Benguet",
		Location:  "Benguet",
		SessionID: "s1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Palay averages 23.50 PHP per kilo in Benguet as of 2024.", answer.Text)
	require.Len(t, answer.Sources, 1)

	assert.Contains(t, gen.lastPrompt, "AGRI-AID")
	assert.Contains(t, gen.lastPrompt, "=== PRICE DATA ===")
	assert.Contains(t, gen.lastPrompt, "User Location: Benguet")
	assert.Contains(t, gen.lastPrompt, "Question: magkano ang palay sa Benguet")

	require.Len(t, fuser.appended, 1)
	assert.Equal(t, answer.Text, fuser.appended[0].Answer)
}

func TestAsk_FusionErrorPropagates(t *testing.T) {
	t.Parallel()

	a := New(&fakeFuser{err: errors.New("knowledge lookup failed")}, &fakeGenerator{}, &fakeProber{}, 6000)

	_, err := a.Ask(context.Background(), core.Query{Text: "x"})
	assert.ErrorContains(t, err, "fusing context")
}

func TestAsk_GenerationErrorPropagates(t *testing.T) {
	t.Parallel()

	fuser := &fakeFuser{}
	a := New(fuser, &fakeGenerator{err: errors.New("ollama down")}, &fakeProber{}, 6000)

	_, err := a.Ask(context.Background(), core.Query{Text: "x", SessionID: "s1"})
	assert.ErrorContains(t, err, "generating answer")
	assert.Empty(t, fuser.appended, "failed turns must not enter the window")
}

func TestAsk_TranscriptIncluded(t *testing.T) {
	t.Parallel()

	fuser := &fakeFuser{fused: &core.FusedContext{
		Transcript: "Farmer: hello\nAgriAid: hi\n",
	}}
	gen := &fakeGenerator{response: "ok"}

	a := New(fuser, gen, &fakeProber{}, 6000)

	_, err := a.Ask(context.Background(), core.Query{Text: "follow-up", SessionID: "s1"})
	require.NoError(t, err)

	assert.Contains(t, gen.lastPrompt, "=== CONVERSATION HISTORY ===")
	assert.Contains(t, gen.lastPrompt, "Farmer: hello")
}

func TestCleanResponse(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"The price of cabbage in Benguet is 45 PHP per kilo.",
		"However, prices vary by market.",
		"Alternatively, you could check La Trinidad.",
		"Let me know if you need more help.",
		"Source: None",
		"Note: this is an estimate.",
		"Visit the DA price watch for daily updates.",
	}, "\n")

	cleaned := cleanResponse(raw)

	assert.Equal(t, strings.Join([]string{
		"The price of cabbage in Benguet is 45 PHP per kilo.",
		"Visit the DA price watch for daily updates.",
	}, "\n"), cleaned)
}

func TestBuildPrompt_TrimsOnlyContext(t *testing.T) {
	t.Parallel()

	fused := &core.FusedContext{
		Text: strings.Repeat("agricultural context data ", 5000),
	}
	query := core.Query{Text: "what is the price of rice", Location: "Ifugao"}

	prompt := buildPrompt(time.Now(), fused, query, 1000)

	assert.Contains(t, prompt, "Question: what is the price of rice")
	assert.Contains(t, prompt, "User Location: Ifugao")
	assert.Less(t, len(prompt), len(fused.Text))
}

func TestBuildPrompt_DropsContextWhenFixedPartsExceedBudget(t *testing.T) {
	t.Parallel()

	fused := &core.FusedContext{
		Text:       "=== PRICE DATA (Benguet, 2024) ===\n45.00 PHP per kg",
		Transcript: strings.Repeat("Farmer: a long question\nAgriAid: a long answer\n", 50),
	}
	query := core.Query{Text: "what is the price of rice"}

	// Header plus history alone blow a budget this small
	prompt := buildPrompt(time.Now(), fused, query, 10)

	assert.NotContains(t, prompt, "PRICE DATA")
	assert.Contains(t, prompt, "Question: what is the price of rice")
}

func TestStatus(t *testing.T) {
	t.Parallel()

	up := New(&fakeFuser{}, &fakeGenerator{}, &fakeProber{connected: true}, 6000)
	s := up.Status(context.Background())
	assert.True(t, s.Connected)
	assert.Equal(t, "llama3.1:8b", s.Model)
	assert.Empty(t, s.Error)

	down := New(&fakeFuser{}, &fakeGenerator{}, &fakeProber{err: errors.New("refused")}, 6000)
	s = down.Status(context.Background())
	assert.False(t, s.Connected)
	assert.Equal(t, "refused", s.Error)
}
