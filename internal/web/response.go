package web

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

const (
	forbiddenResponse  = "HTTP/1.1 403 Forbidden\r\nContent-Type: text/html\r\nContent-Length: 0\r\n\r\n"
	badRequestResponse = "HTTP/1.1 400 Bad Request\r\nContent-Type: text/html\r\nContent-Length: 0\r\n\r\n"
)

// DefaultContentType is used for extensions without a known type.
const DefaultContentType = "application/octet-stream"

// ContentType guesses the MIME type of path from its extension.
func ContentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return DefaultContentType
}

func writeForbidden(w io.Writer) error {
	_, err := io.WriteString(w, forbiddenResponse)
	return err
}

func writeBadRequest(w io.Writer) error {
	_, err := io.WriteString(w, badRequestResponse)
	return err
}

// writeContent sends path with a 200, or a 403 when it cannot be read.
func writeContent(w io.Writer, path string) (Outcome, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return OutcomeReadFailed, writeForbidden(w)
	}
	header := fmt.Sprintf(
		"HTTP/1.1 200 OK\r\nContent-Type: %s\r\nContent-Length: %d\r\nAccess-Control-Allow-Origin: *\r\n\r\n",
		ContentType(path), len(content),
	)
	if _, err := io.WriteString(w, header); err != nil {
		return OutcomeServed, err
	}
	if _, err := w.Write(content); err != nil {
		return OutcomeServed, err
	}
	return OutcomeServed, nil
}
