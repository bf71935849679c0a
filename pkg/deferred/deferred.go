// Package deferred provides a writer that buffers output for later replay.
package deferred

import (
	"bytes"
	"io"
	"sync"
)

// Writer buffers everything written to it so it can be flushed to a
// real writer later. Used to hold log output while a TUI owns the
// terminal.
type Writer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.buf.Write(p)
}

// Flush replays the buffered output to out and resets the buffer.
func (w *Writer) Flush(out io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() == 0 {
		return nil
	}

	_, err := io.Copy(out, &w.buf)
	w.buf.Reset()
	return err
}
