// Package extract converts uploaded files into plain text.
//
// Supported formats are PDF, DOCX, and plain-text files. Unknown
// extensions are decoded as UTF-8 with invalid bytes replaced.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/kart-io/docvault/pkg/errors"
)

// allowedExtensions are the upload extensions the service accepts.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".txt":  {},
	".md":   {},
	".py":   {},
	".js":   {},
	".html": {},
	".css":  {},
}

// IsSupported reports whether the filename has an accepted extension.
func IsSupported(filename string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// SupportedExtensions returns the accepted extensions, for error messages.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".txt", ".md", ".py", ".js", ".html", ".css"}
}

// Text extracts plain text from file content based on the filename
// extension. Unsupported extensions return ErrUnsupportedFileType.
func Text(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", errors.ErrUnsupportedFileType.WithMessagef(
			"unsupported file type %q, supported: %s", ext, strings.Join(SupportedExtensions(), " "))
	}

	switch ext {
	case ".pdf":
		return pdfText(data)
	case ".docx":
		return docxText(data)
	default:
		return plainText(data), nil
	}
}

// plainText decodes bytes as UTF-8, replacing invalid sequences.
func plainText(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}
