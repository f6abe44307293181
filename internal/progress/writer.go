// Package progress captures line-oriented text emitted by a producer and
// converts tagged lines into structured progress snapshots.
package progress

import (
	"bytes"
	"regexp"
	"sync"
)

// Lines of the form "[Agent:<name>] <message>" are progress-worthy.
var tagPattern = regexp.MustCompile(`^\[Agent:(.+?)\] (.+)$`)

// SnapshotFunc receives the agent name and message of each matched line.
type SnapshotFunc func(agent, message string)

// Writer is an io.Writer that scans written bytes line by line. Matching
// lines are forwarded to the snapshot function; everything else is dropped.
// Write never returns an error, and a line that fails to match does not
// affect capture of subsequent lines.
type Writer struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	emit SnapshotFunc
}

// NewWriter creates a Writer forwarding snapshots to emit.
func NewWriter(emit SnapshotFunc) *Writer {
	return &Writer{emit: emit}
}

// Write buffers p and scans any complete lines it now holds.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		raw := w.buf.Bytes()
		i := bytes.IndexByte(raw, '\n')
		if i < 0 {
			break
		}
		line := string(raw[:i])
		w.buf.Next(i + 1)
		w.scan(line)
	}
	return len(p), nil
}

// Flush scans any trailing bytes not terminated by a newline.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.scan(w.buf.String())
		w.buf.Reset()
	}
}

func (w *Writer) scan(line string) {
	line = trimCR(line)
	if line == "" {
		return
	}
	m := tagPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	w.emit(m[1], m[2])
}

func trimCR(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		return line[:n-1]
	}
	return line
}
