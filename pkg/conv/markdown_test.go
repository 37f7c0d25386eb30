package conv

import (
	"strings"
	"testing"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "plain text",
			input:    "Palay prices are stable",
			expected: "Palay prices are stable\n",
		},
		{
			name:     "bold text",
			input:    "**bold**",
			expected: "<strong>bold</strong>\n",
		},
		{
			name:     "inline code",
			input:    "`code`",
			expected: "<code>code</code>\n",
		},
		{
			name:     "link kept with href only",
			input:    "[PSA OpenStat](https://openstat.psa.gov.ph)",
			expected: "<a href=\"https://openstat.psa.gov.ph\">PSA OpenStat</a>\n",
		},
		{
			name:     "header tags stripped",
			input:    "# Advisory",
			expected: "Advisory\n",
		},
		{
			name:     "script tags sanitized",
			input:    "<script>alert('xss')</script>",
			expected: "\n",
		},
		{
			name:     "blockquote",
			input:    "> quote",
			expected: "<blockquote>\nquote\n</blockquote>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToTelegramHTML([]byte(tt.input))
			if got != tt.expected {
				t.Errorf("MarkdownToTelegramHTML(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHTMLToText(t *testing.T) {
	in := `<html><body><h1>Price Watch</h1><p>Rice: <b>45.00</b> PHP/kg</p></body></html>`
	got, err := HTMLToText(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Price Watch") || !strings.Contains(got, "45.00") {
		t.Errorf("expected flattened text with headline and price, got %q", got)
	}
}
