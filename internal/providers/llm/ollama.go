// Package llm talks to the local Ollama daemon. Generation is deliberately
// opaque to the rest of the system: prompt in, text out.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sandevgo/agriaid/internal/config"
)

type Ollama struct {
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

func NewOllama(cfg *config.OllamaConfig) *Ollama {
	return &Ollama{
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		// generation on CPU-bound models can take a while
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Generate runs a single non-streaming completion.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": o.temperature,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama not available: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding ollama response: %w", err)
	}

	return result.Response, nil
}

// Models lists the tags the daemon has pulled.
func (o *Ollama) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", o.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama not available: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	models := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		models = append(models, m.Name)
	}
	return models, nil
}

// Status probes the daemon and reports whether the configured model is
// pulled. A probe failure is returned as the error, not a degraded status.
func (o *Ollama) Status(ctx context.Context) (bool, error) {
	models, err := o.Models(ctx)
	if err != nil {
		return false, err
	}

	for _, m := range models {
		if m == o.model {
			return true, nil
		}
	}
	return false, nil
}

// Model returns the configured model tag.
func (o *Ollama) Model() string {
	return o.model
}
