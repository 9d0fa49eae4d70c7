package web

import (
	"errors"
	"log"
	"net"
	"time"

	"allowserve/internal/allowlist"
)

// Server accepts connections and answers one request per connection from the allow-list.
type Server struct {
	list *allowlist.List
}

// NewServer wires up the server around a built allow-list.
func NewServer(list *allowlist.List) *Server {
	return &Server{list: list}
}

// ListenAndServe listens on the TCP address addr and calls Serve.
func (s *Server) ListenAndServe(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve accepts connections on l and handles each one in its own goroutine.
// It returns nil once l is closed.
func (s *Server) Serve(l net.Listener) error {
	var delay time.Duration
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > time.Second {
				delay = time.Second
			}
			log.Printf("accept failed: %v; retrying in %v", err, delay)
			time.Sleep(delay)
			continue
		}
		delay = 0
		go s.ServeConn(conn)
	}
}
