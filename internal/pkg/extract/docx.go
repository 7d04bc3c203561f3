package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/kart-io/docvault/pkg/errors"
)

// docxDocument maps the paragraph/run structure of word/document.xml.
// Only text runs are needed; everything else is ignored.
type docxDocument struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text string `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

// docxText extracts paragraph text from a DOCX archive. A DOCX file is
// a ZIP container; the document body lives in word/document.xml.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.ErrExtraction.WithCause(err).WithMessage("failed to open DOCX archive")
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", errors.ErrExtraction.WithCause(err).WithMessage("failed to read DOCX document body")
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", errors.ErrExtraction.WithCause(err).WithMessage("failed to read DOCX document body")
		}
		break
	}
	if docXML == nil {
		return "", errors.ErrExtraction.WithMessage("DOCX archive has no document body")
	}

	var doc docxDocument
	if err := xml.Unmarshal(docXML, &doc); err != nil {
		return "", errors.ErrExtraction.WithCause(err).WithMessage("failed to parse DOCX document body")
	}

	var content strings.Builder
	for _, p := range doc.Body.Paragraphs {
		var line strings.Builder
		for _, r := range p.Runs {
			line.WriteString(r.Text)
		}
		text := strings.TrimSpace(line.String())
		if text == "" {
			continue
		}
		if content.Len() > 0 {
			content.WriteString("\n")
		}
		content.WriteString(text)
	}

	return content.String(), nil
}
