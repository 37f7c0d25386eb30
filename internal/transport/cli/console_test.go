package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/agriaid/internal/config"
	"github.com/sandevgo/agriaid/internal/core"
	"github.com/sandevgo/agriaid/internal/service/assistant"
	"github.com/sandevgo/agriaid/pkg/log"
)

type fakeAsker struct {
	answers map[string]*assistant.Answer
	err     error
	asked   []core.Query
	status  assistant.Status
}

func (f *fakeAsker) Ask(ctx context.Context, query core.Query) (*assistant.Answer, error) {
	f.asked = append(f.asked, query)
	if f.err != nil {
		return nil, f.err
	}
	if ans, ok := f.answers[query.Text]; ok {
		return ans, nil
	}
	return &assistant.Answer{Text: "no idea"}, nil
}

func (f *fakeAsker) Status(ctx context.Context) assistant.Status {
	return f.status
}

func newTestConsole(asker Asker, input string) (*Console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Console{
		cfg:  &config.AppConfig{},
		asst: asker,
		in:   bufio.NewScanner(strings.NewReader(input)),
		out:  out,
	}, out
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, _ := log.NewContextWithLogger(context.Background(), false)
	return ctx
}

func TestConsoleAnswersAndExits(t *testing.T) {
	t.Parallel()

	asker := &fakeAsker{answers: map[string]*assistant.Answer{
		"when to plant rice": {
			Text: "During the wet season onset.",
			Sources: []core.SourceRecord{
				{Title: "ATI Cordillera", URL: "https://ati.da.gov.ph/ati-car"},
			},
		},
	}}
	console, out := newTestConsole(asker, "when to plant rice\nexit\n")

	err := console.Start(testCtx(t))

	require.NoError(t, err)
	require.Len(t, asker.asked, 1)
	assert.Equal(t, defaultSessionID, asker.asked[0].SessionID)
	assert.Contains(t, out.String(), "During the wet season onset.")
	assert.Contains(t, out.String(), "ATI Cordillera")
}

func TestConsoleSkipsBlankLines(t *testing.T) {
	t.Parallel()

	asker := &fakeAsker{}
	console, _ := newTestConsole(asker, "\n   \nexit\n")

	err := console.Start(testCtx(t))

	require.NoError(t, err)
	assert.Empty(t, asker.asked)
}

func TestConsoleReportsErrorsAndKeepsRunning(t *testing.T) {
	t.Parallel()

	asker := &fakeAsker{err: errors.New("model offline")}
	console, out := newTestConsole(asker, "anything\nexit\n")

	err := console.Start(testCtx(t))

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Error: model offline")
}

func TestConsoleStatusCommand(t *testing.T) {
	t.Parallel()

	asker := &fakeAsker{status: assistant.Status{Connected: true, Model: "llama3.1:8b"}}
	console, out := newTestConsole(asker, "/status\nexit\n")

	err := console.Start(testCtx(t))

	require.NoError(t, err)
	assert.Empty(t, asker.asked)
	assert.Contains(t, out.String(), "llama3.1:8b is ready")
}

func TestConsoleStopsAtEOF(t *testing.T) {
	t.Parallel()

	console, _ := newTestConsole(&fakeAsker{}, "")

	err := console.Start(testCtx(t))

	require.NoError(t, err)
}
