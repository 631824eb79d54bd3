package orchestrator

import (
	"strings"
	"sync"
)

// tailWriter keeps the last n complete lines written to it.
type tailWriter struct {
	mu      sync.Mutex
	n       int
	lines   []string
	partial strings.Builder
}

func newTailWriter(n int) *tailWriter {
	return &tailWriter{n: n}
}

func (w *tailWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, b := range p {
		if b != '\n' {
			w.partial.WriteByte(b)
			continue
		}
		w.push(w.partial.String())
		w.partial.Reset()
	}
	return len(p), nil
}

func (w *tailWriter) push(line string) {
	w.lines = append(w.lines, line)
	if len(w.lines) > w.n {
		w.lines = w.lines[len(w.lines)-w.n:]
	}
}

// String returns the retained lines, including an unterminated last line.
func (w *tailWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	lines := w.lines
	if w.partial.Len() > 0 {
		lines = append(lines[:len(lines):len(lines)], w.partial.String())
		if len(lines) > w.n {
			lines = lines[len(lines)-w.n:]
		}
	}
	return strings.Join(lines, "\n")
}
