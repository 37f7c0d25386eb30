// Package assistant drives one question through fusion, generation, and
// response cleanup.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/agriaid/internal/core"
	"github.com/sandevgo/agriaid/pkg/log"
)

// Fuser is the fusion engine surface the assistant depends on.
type Fuser interface {
	Fuse(ctx context.Context, query core.Query) (*core.FusedContext, error)
	AppendTurn(sessionID, question, answer string)
}

// ModelProber reports whether the generative backend is reachable and has
// the configured model.
type ModelProber interface {
	Status(ctx context.Context) (bool, error)
	Model() string
}

// Answer is a generated reply with its attributed sources.
type Answer struct {
	Text    string
	Sources []core.SourceRecord
}

// Status is the health probe result for the generative backend.
type Status struct {
	Connected bool      `json:"connected"`
	Model     string    `json:"model"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Assistant struct {
	fuser       Fuser
	generator   core.Generator
	prober      ModelProber
	tokenBudget int
}

func New(fuser Fuser, generator core.Generator, prober ModelProber, tokenBudget int) *Assistant {
	return &Assistant{
		fuser:       fuser,
		generator:   generator,
		prober:      prober,
		tokenBudget: tokenBudget,
	}
}

// Ask answers one question. The fused context degrades on upstream outages
// but never aborts; only a generation failure or a knowledge invariant
// violation surfaces as an error.
func (a *Assistant) Ask(ctx context.Context, query core.Query) (*Answer, error) {
	logger := log.FromCtx(ctx)

	fused, err := a.fuser.Fuse(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fusing context: %w", err)
	}

	prompt := buildPrompt(time.Now(), fused, query, a.tokenBudget)

	logger.Info().
		Int("sources", len(fused.Sources)).
		Int("prompt_chars", len(prompt)).
		Msg("generating answer")

	raw, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	answer := cleanResponse(raw)
	a.fuser.AppendTurn(query.SessionID, query.Text, answer)

	return &Answer{Text: answer, Sources: fused.Sources}, nil
}

// Status probes the generative backend.
func (a *Assistant) Status(ctx context.Context) Status {
	s := Status{Model: a.prober.Model(), Timestamp: time.Now()}

	connected, err := a.prober.Status(ctx)
	if err != nil {
		s.Error = err.Error()
		return s
	}

	s.Connected = connected
	return s
}

// Filler lines the local models tend to emit despite the prompt rules.
var unwantedPhrases = []string{
	"Alternatively",
	"Let me know",
	"how else can",
	"Source: None",
	"Note:",
	"However,",
}

func cleanResponse(response string) string {
	lines := strings.Split(response, "\n")
	kept := lines[:0]

	for _, line := range lines {
		unwanted := false
		for _, phrase := range unwantedPhrases {
			if strings.Contains(line, phrase) {
				unwanted = true
				break
			}
		}
		if !unwanted {
			kept = append(kept, line)
		}
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}
