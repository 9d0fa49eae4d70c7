package web

import (
	"errors"
	"log"
	"net"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// RequestBufferSize is the most the server reads from a connection. Longer requests are truncated.
const RequestBufferSize = 1024

// ErrMalformedRequest is returned for a request line that is not "GET <path> <version>".
var ErrMalformedRequest = errors.New("malformed request line")

// Outcome is the terminal state of one connection.
type Outcome int

const (
	// OutcomeClosed means the peer sent nothing or the read failed; no response was sent.
	OutcomeClosed Outcome = iota
	// OutcomeMalformed means a 400 was sent.
	OutcomeMalformed
	// OutcomeUnauthorized means no allow-list entry matched and a 403 was sent.
	OutcomeUnauthorized
	// OutcomeReadFailed means the matched file could not be read and a 403 was sent.
	OutcomeReadFailed
	// OutcomeServed means a 200 with the file contents was sent.
	OutcomeServed
	// OutcomeWriteFailed means writing the response failed part way.
	OutcomeWriteFailed
	// OutcomeAborted means the handler panicked.
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClosed:
		return "closed"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeReadFailed:
		return "read-failed"
	case OutcomeServed:
		return "served"
	case OutcomeWriteFailed:
		return "write-failed"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Request holds the parts of a request line the server uses.
type Request struct {
	Method string
	// Path has its leading slash removed.
	Path  string
	Proto string
}

// ParseRequestLine decodes buf lossily and parses its first line.
// ok is false when there is no first line at all.
func ParseRequestLine(buf []byte) (req Request, ok bool, err error) {
	text := decodeLossy(buf)
	if text == "" {
		return Request{}, false, nil
	}
	first, _, _ := strings.Cut(text, "\n")
	first = strings.TrimSuffix(first, "\r")

	parts := strings.Fields(first)
	if len(parts) != 3 || parts[0] != "GET" {
		return Request{}, true, ErrMalformedRequest
	}
	return Request{
		Method: parts[0],
		Path:   strings.TrimPrefix(parts[1], "/"),
		Proto:  parts[2],
	}, true, nil
}

func decodeLossy(buf []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(buf)
	if err != nil {
		return strings.ToValidUTF8(string(buf), "�")
	}
	return string(decoded)
}

// ServeConn reads one request from conn, answers it and closes conn.
func (s *Server) ServeConn(conn net.Conn) (outcome Outcome) {
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic recovered: %v", r)
			outcome = OutcomeAborted
		}
	}()

	buf := make([]byte, RequestBufferSize)
	n, _ := conn.Read(buf)
	if n == 0 {
		return OutcomeClosed
	}

	req, ok, err := ParseRequestLine(buf[:n])
	if !ok {
		return OutcomeClosed
	}
	if err != nil {
		log.Printf("bad request from %s", conn.RemoteAddr())
		if err := writeBadRequest(conn); err != nil {
			return OutcomeWriteFailed
		}
		return OutcomeMalformed
	}

	fullPath, matched := s.list.Match(req.Path)
	if !matched {
		log.Printf("forbidden request for %q", req.Path)
		if err := writeForbidden(conn); err != nil {
			return OutcomeWriteFailed
		}
		return OutcomeUnauthorized
	}

	outcome, err = writeContent(conn, fullPath)
	if err != nil {
		return OutcomeWriteFailed
	}
	if outcome == OutcomeReadFailed {
		log.Printf("forbidden request for %q: %s unreadable", req.Path, fullPath)
	}
	return outcome
}
