// Package stdio converts between Content-Length framed JSON-RPC, as sent by
// LSP-style clients, and the newline-delimited stream the MCP server reads.
package stdio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxContentLength bounds a single framed message.
const MaxContentLength = 100 * 1024 * 1024

// Reader yields one compact JSON document per line for every framed
// message read from the underlying stream.
type Reader struct {
	br      *bufio.Reader
	pending []byte
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadMessage reads the headers and body of the next framed message.
func (r *Reader) ReadMessage() ([]byte, error) {
	length := -1
	sawHeader := false
	for {
		line, err := r.br.ReadString('\n')
		if err != nil {
			if err == io.EOF && (sawHeader || strings.TrimSpace(line) != "") {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if !sawHeader {
				continue
			}
			break
		}
		sawHeader = true
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid content-length: %w", err)
		}
		length = n
	}

	switch {
	case length < 0:
		return nil, fmt.Errorf("content-length header missing")
	case length == 0:
		return nil, fmt.Errorf("invalid content-length: %d", length)
	case length > MaxContentLength:
		return nil, fmt.Errorf("content-length %d exceeds maximum of %d bytes", length, MaxContentLength)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r.br, body); err != nil {
		return nil, err
	}
	return body, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		body, err := r.ReadMessage()
		if err != nil {
			return 0, err
		}
		r.pending = append(singleLine(body), '\n')
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// singleLine removes the insignificant whitespace a pretty-printed body may
// carry. Bodies that are not JSON are passed on for the server to reject.
func singleLine(body []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err == nil {
		return buf.Bytes()
	}
	return bytes.ReplaceAll(bytes.ReplaceAll(body, []byte("\r"), nil), []byte("\n"), []byte(" "))
}
