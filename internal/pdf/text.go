// Package pdf extracts plain text and link annotations from PDF byte
// buffers. Both extractors are best-effort: failures are logged and
// degrade to empty results so that callers never have to handle an error
// from this package.
package pdf

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText returns the concatenated plain text of all pages, separated
// by newlines and trimmed. It returns "" if the buffer cannot be opened or
// no page yields text; callers must check for emptiness, not an error.
func ExtractText(data []byte) (text string) {
	// The underlying parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("pdf.text.panic", "recovered", r)
			text = ""
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		slog.Error("pdf.text.open_failed", "error", err)
		return ""
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			slog.Warn("pdf.text.page_skipped", "page", i, "error", err)
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pageText)
	}
	return strings.TrimSpace(b.String())
}
