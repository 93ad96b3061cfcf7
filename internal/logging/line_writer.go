package logging

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"time"
)

// lineWriter prefixes every complete line with a sequence number and a
// timestamp before handing it to the target. Partial lines wait in the buffer
// until their newline arrives or Close is called.
type lineWriter struct {
	mu     sync.Mutex
	target io.Writer
	seq    uint64
	buf    bytes.Buffer
	now    func() time.Time
}

func newLineWriter(target io.Writer) *lineWriter {
	return &lineWriter{target: target, now: time.Now}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		idx := bytes.IndexByte(w.buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := w.buf.Next(idx + 1)
		if err := w.writeLine(bytes.TrimRight(line, "\r\n")); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

func (w *lineWriter) writeLine(line []byte) error {
	w.seq++
	prefix := slog.Uint64("line", w.seq).String() + " " +
		slog.String("time", w.now().Format(time.RFC3339)).String() + " "

	out := make([]byte, 0, len(prefix)+len(line)+1)
	out = append(out, prefix...)
	out = append(out, line...)
	out = append(out, '\n')
	_, err := w.target.Write(out)
	return err
}

// Close flushes a trailing partial line.
func (w *lineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() == 0 {
		return nil
	}
	line := append([]byte(nil), w.buf.Bytes()...)
	w.buf.Reset()
	return w.writeLine(line)
}
