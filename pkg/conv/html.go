package conv

import (
	"io"

	"github.com/inbucket/html2text"
)

// HTMLToText flattens a scraped HTML page into readable plain text, keeping
// links so the excerpt stays attributable. Used for upstream pages that
// publish tabular data without an API.
func HTMLToText(r io.Reader) (string, error) {
	return html2text.FromReader(r, html2text.Options{
		OmitLinks:    false,
		PrettyTables: true,
	})
}
