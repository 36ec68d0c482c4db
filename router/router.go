package router

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
	"github.com/misfitdev/spotr-mcp/pkg/registry"
	"github.com/misfitdev/spotr-mcp/stdio"
)

type detection struct {
	framing Framing
	err     error
}

// detect waits for the first bytes on stdin. A cancelled ctx ends the wait
// with FramingUnknown; the peek stays blocked until the stream yields.
func detect(ctx context.Context, sniffer *Sniffer) (Framing, error) {
	done := make(chan detection, 1)
	go func() {
		framing, err := sniffer.Detect()
		done <- detection{framing, err}
	}()

	select {
	case d := <-done:
		return d.framing, d.err
	case <-ctx.Done():
		return FramingUnknown, nil
	}
}

// Serve answers MCP requests read from in until in is exhausted or ctx is
// done, including while it still waits for the first message. Clients that frame messages with Content-Length headers get their
// responses framed the same way.
func Serve(ctx context.Context, reg *registry.Registry, in io.Reader, out io.Writer, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}

	sniffer := NewSniffer(in)
	framing, err := detect(ctx, sniffer)
	if err != nil {
		return fmt.Errorf("failed to detect framing: %w", err)
	}
	if ctx.Err() != nil {
		return nil
	}

	var r io.Reader = sniffer
	w := out
	if framing == FramingContentLength {
		r = stdio.NewReader(sniffer)
		w = stdio.NewWriter(out)
	}

	logger.Info("serving MCP on stdio",
		"framing", framing,
		"tools", len(reg.Tools()),
		"resources", len(reg.ListResources()),
		"prompts", len(reg.Prompts()))

	stdioServer := server.NewStdioServer(NewServer(reg))
	stdioServer.SetErrorLogger(logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}))
	if err := stdioServer.Listen(ctx, r, w); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve stdio: %w", err)
	}
	return nil
}
