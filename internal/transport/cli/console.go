// Package cli runs the assistant as an interactive terminal loop.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sandevgo/agriaid/internal/config"
	"github.com/sandevgo/agriaid/internal/core"
	"github.com/sandevgo/agriaid/internal/service/assistant"
	"github.com/sandevgo/agriaid/internal/service/ui"
	"github.com/sandevgo/agriaid/pkg/log"
)

const defaultSessionID = "cli-local"

// Asker is the assistant surface the console depends on.
type Asker interface {
	Ask(ctx context.Context, query core.Query) (*assistant.Answer, error)
	Status(ctx context.Context) assistant.Status
}

type Console struct {
	cfg  *config.AppConfig
	asst Asker
	in   *bufio.Scanner
	out  io.Writer
}

func NewConsole(asst Asker, cfg *config.AppConfig) *Console {
	return &Console{
		cfg:  cfg,
		asst: asst,
		in:   bufio.NewScanner(os.Stdin),
		out:  os.Stdout,
	}
}

func (c *Console) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("console chat started. Type 'exit' to quit, '/status' for backend health.")
	fmt.Fprintf(c.out, "AgriAid — ask about farming in %s\n", c.cfg.Region)

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(c.out, ">>> ")
		if !c.in.Scan() {
			return c.in.Err()
		}

		line := strings.TrimSpace(c.in.Text())
		switch {
		case line == "exit":
			return nil
		case line == "":
			continue
		case line == "/status":
			c.printStatus(ctx)
			continue
		}

		ans, err := c.asst.Ask(ctx, core.Query{
			Text:      line,
			SessionID: defaultSessionID,
		})
		if err != nil {
			logger.Error().Err(err).Msg("question failed")
			fmt.Fprintf(c.out, "Error: %v\n", err)
			continue
		}

		fmt.Fprintf(c.out, "%s\n", ans.Text)
		c.printSources(ans.Sources)
	}
}

func (c *Console) Shutdown(ctx context.Context) error {
	return nil
}

func (c *Console) printStatus(ctx context.Context) {
	st := c.asst.Status(ctx)
	if !st.Connected {
		fmt.Fprintf(c.out, "model %s is not reachable: %s\n", st.Model, st.Error)
		return
	}
	fmt.Fprintf(c.out, "model %s is ready\n", st.Model)
}

func (c *Console) printSources(sources []core.SourceRecord) {
	if len(sources) == 0 {
		return
	}

	fmt.Fprintln(c.out, ui.SourceStyle.Render("Sources:"))
	for _, src := range sources {
		if src.URL != "" {
			fmt.Fprintln(c.out, ui.SourceStyle.Render(fmt.Sprintf("  - %s (%s)", src.Title, src.URL)))
			continue
		}
		fmt.Fprintln(c.out, ui.SourceStyle.Render(fmt.Sprintf("  - %s", src.Title)))
	}
}
