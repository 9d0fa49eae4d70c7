package allowlist

import (
	"os"
	"strings"
	"sync"
)

// DefaultCandidates are the files served when no other list is configured.
var DefaultCandidates = []string{"./public/index.html", "./public/style.css"}

// List stores the permitted file paths. It is filled once by Build and only read afterwards.
type List struct {
	mu      sync.RWMutex
	entries []string
}

// Build keeps the candidates that exist on disk, in candidate order.
func Build(candidates []string) *List {
	entries := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		entries = append(entries, candidate)
	}
	return &List{entries: entries}
}

// Match returns the first entry ending with requested.
// An empty request matches the first entry.
func (l *List) Match(requested string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, entry := range l.entries {
		if strings.HasSuffix(entry, requested) {
			return entry, true
		}
	}
	return "", false
}

// Entries returns a copy of the permitted paths.
func (l *List) Entries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports how many paths are permitted.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
