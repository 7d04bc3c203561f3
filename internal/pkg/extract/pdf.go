package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kart-io/docvault/pkg/errors"
)

// pdfText extracts the plain text of every page. Pages that fail to
// parse are skipped; only an unreadable document is an error.
func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.ErrExtraction.WithCause(err).WithMessage("failed to parse PDF")
	}

	var content strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if content.Len() > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(text)
	}

	return content.String(), nil
}
