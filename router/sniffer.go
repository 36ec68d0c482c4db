package router

import (
	"bufio"
	"bytes"
	"io"
)

// Framing is the message framing a client uses on stdin.
type Framing int

const (
	FramingUnknown Framing = iota
	// FramingLine is newline-delimited JSON-RPC.
	FramingLine
	// FramingContentLength prefixes each message with LSP-style headers.
	FramingContentLength
)

func (f Framing) String() string {
	switch f {
	case FramingLine:
		return "line"
	case FramingContentLength:
		return "content-length"
	}
	return "unknown"
}

var contentLengthHeader = []byte("content-length:")

// Sniffer peeks at the head of a stream without consuming it.
type Sniffer struct {
	br *bufio.Reader
}

func NewSniffer(r io.Reader) *Sniffer {
	return &Sniffer{
		br: bufio.NewReader(r),
	}
}

// Detect reports the framing of the first message. Leading whitespace is
// skipped when peeking but stays in the stream.
func (s *Sniffer) Detect() (Framing, error) {
	for n := 1; ; n++ {
		peek, err := s.br.Peek(n)
		if len(peek) < n {
			if err == io.EOF || err == bufio.ErrBufferFull {
				return FramingUnknown, nil
			}
			return FramingUnknown, err
		}
		c := peek[n-1]
		if isSpace(c) {
			continue
		}
		if c == '{' || c == '[' {
			return FramingLine, nil
		}
		return s.detectHeader(n - 1)
	}
}

func (s *Sniffer) detectHeader(offset int) (Framing, error) {
	peek, err := s.br.Peek(offset + len(contentLengthHeader))
	if len(peek) < offset+len(contentLengthHeader) {
		if err != nil && err != io.EOF {
			return FramingUnknown, err
		}
		return FramingUnknown, nil
	}
	if bytes.EqualFold(peek[offset:], contentLengthHeader) {
		return FramingContentLength, nil
	}
	return FramingUnknown, nil
}

func (s *Sniffer) Read(p []byte) (n int, err error) {
	return s.br.Read(p)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
