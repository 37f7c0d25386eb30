package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/sandevgo/agriaid/internal/core"
)

const systemPromptHeader = `You are AGRI-AID, a FACTUAL Philippine agriculture expert specializing in the CORDILLERA ADMINISTRATIVE REGION (CAR).
CURRENT DATE: %s

GEOGRAPHIC SCOPE: Your expertise covers the Cordillera Administrative Region (CAR), which includes:
- Abra, Apayao, Benguet, Ifugao, Kalinga, and Mountain Province
- Focus on highland/mountainous agriculture, rice terraces, vegetable farming
- When data is unavailable for CAR, you may reference national data but clearly state this

STRICT RULES (PHILIPPINES - CAR FOCUS):
1. Answer ONLY questions about Philippine agriculture, prioritizing CAR context. Refuse others.
2. PRICE QUERIES: provide a clear summary sentence FIRST, with a specific range in PHP, the CAR province, and the date. Only use data from the provided context. If CAR-specific data is missing but national data is available, say so explicitly. Never output just a list of links.
3. SOURCES: use the knowledge base first, then the web search results.
4. OFFICIALS: only use names and titles listed in the verified knowledge base.
5. REGIONAL CONTEXT: tailor responses to CAR's highland agriculture, cool climate crops, and unique farming practices.

RESPONSE FORMAT:
- Direct and confident answer in English, with CAR context when relevant.
- No fluff or disclaimers like "As an AI...".
`

// buildPrompt assembles the full generation prompt. The fused context block
// is the only part trimmed when the token budget is exceeded; the rules,
// history, and question always survive intact.
func buildPrompt(now time.Time, fused *core.FusedContext, query core.Query, tokenBudget int) string {
	header := fmt.Sprintf(systemPromptHeader, now.Format("Monday, January 2, 2006 at 3:04 PM"))

	var history string
	if fused.Transcript != "" {
		history = "\n=== CONVERSATION HISTORY ===\n" + fused.Transcript
	}

	var tail strings.Builder
	if query.Location != "" {
		fmt.Fprintf(&tail, "\nUser Location: %s\n", query.Location)
	}
	fmt.Fprintf(&tail, "\nQuestion: %s", query.Text)

	fixed := header + history + "\nKNOWLEDGE BASE AND LIVE DATA:\n" + tail.String()
	contextBudget := tokenBudget - countTokens(fixed)

	// The fixed parts alone can exceed the budget; the context block is
	// dropped entirely then, never emitted untrimmed.
	contextText := fused.Text
	if contextBudget <= 0 {
		contextText = ""
	} else if countTokens(contextText) > contextBudget {
		contextText = truncateToTokens(contextText, contextBudget)
	}

	return header + history + "\nKNOWLEDGE BASE AND LIVE DATA:\n" + contextText + tail.String()
}

// encoding is resolved lazily; when the BPE tables cannot be loaded the
// token count falls back to a bytes/4 approximation.
func encoder() *tiktoken.Tiktoken {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil
	}
	return enc
}

func countTokens(text string) int {
	if enc := encoder(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return len(text) / 4
}

func truncateToTokens(text string, budget int) string {
	if budget <= 0 {
		return ""
	}

	if enc := encoder(); enc != nil {
		tokens := enc.Encode(text, nil, nil)
		if len(tokens) <= budget {
			return text
		}
		return enc.Decode(tokens[:budget])
	}

	max := budget * 4
	if len(text) <= max {
		return text
	}
	return text[:max]
}
