package stdio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Writer frames every newline-terminated JSON document written to it with
// a Content-Length header. It is safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	w   io.Writer
	buf []byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteMessage writes body as one framed message.
func (w *Writer) WriteMessage(body []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeFrame(body)
}

func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimRight(w.buf[:i], "\r")
		if len(bytes.TrimSpace(line)) > 0 {
			if err := w.writeFrame(line); err != nil {
				return 0, err
			}
		}
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *Writer) writeFrame(body []byte) error {
	if _, err := fmt.Fprintf(w.w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err := w.w.Write(body)
	return err
}
