package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/misfitdev/spotr-mcp/pkg/schema"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

// RenderOutcome converts a handler result into the envelope returned to the
// caller. Success carries the confirmation message and, when present, the
// payload as indented JSON. Failure carries a description, the cause and a
// remediation hint where one applies.
func RenderOutcome(tool string, out Outcome, err error) *mcp.CallToolResult {
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(describeFailure("Error running "+tool, tool, err))},
			IsError: true,
		}
	}

	content := []mcp.Content{mcp.NewTextContent(out.Message)}
	if out.Payload != nil {
		payload, mErr := json.MarshalIndent(out.Payload, "", "  ")
		if mErr != nil {
			return RenderOutcome(tool, Outcome{}, fmt.Errorf("encode result: %w", mErr))
		}
		content = append(content, mcp.NewTextContent(string(payload)))
	}
	return &mcp.CallToolResult{Content: content}
}

// RenderReadFailure reports a failed resource read as plain text content so
// the agent sees the same cause and hint lines a tool failure carries.
func RenderReadFailure(uri string, err error) mcp.ResourceContents {
	return mcp.TextResourceContents{
		URI:      uri,
		MIMEType: "text/plain",
		Text:     describeFailure("Error reading "+uri, uri, err),
	}
}

func describeFailure(heading, tool string, err error) string {
	summary, cause, hint := classify(tool, err)

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", heading, summary)
	if cause != "" {
		fmt.Fprintf(&b, "\nCause: %s", cause)
	}
	if hint != "" {
		fmt.Fprintf(&b, "\nHint: %s", hint)
	}
	return b.String()
}

func classify(tool string, err error) (summary, cause, hint string) {
	var vErr *schema.ValidationError
	var backendErr *spotr.BackendError
	var notFound *spotr.NotFoundError

	switch {
	case errors.As(err, &vErr):
		return "the arguments do not match the tool's input schema.",
			vErr.Error(),
			"Check the listed field paths against the tool's input schema and try again."

	case errors.As(err, &notFound):
		return "the requested " + notFound.Kind + " was not found.",
			notFound.Error(),
			notFoundHint(tool, notFound.Kind)

	case errors.As(err, &backendErr):
		return classifyBackend(tool, backendErr)

	case errors.Is(err, context.Canceled):
		return "the request was cancelled.", "", ""

	case errors.Is(err, context.DeadlineExceeded):
		return "the request timed out.", "", "Retry the request; check SPOTR_HTTP_TIMEOUT if it keeps happening."
	}
	return "the request failed.", err.Error(), ""
}

func classifyBackend(tool string, e *spotr.BackendError) (summary, cause, hint string) {
	switch {
	case e.Transport():
		cause = "could not connect to the Spotr backend"
		if errors.Is(e.Err, context.DeadlineExceeded) {
			cause = "the Spotr backend did not respond in time"
		}
		return "the Spotr backend is unreachable.", cause,
			"Check SPOTR_BASE_URL and network connectivity."

	case e.StatusCode == http.StatusNotFound:
		return "the requested resource was not found.",
			fmt.Sprintf("HTTP %d %s", e.StatusCode, e.Status),
			notFoundHint(tool, "")

	case e.StatusCode < http.StatusBadRequest:
		return "the Spotr backend returned a malformed response.",
			fmt.Sprintf("HTTP %d %s with an unreadable body", e.StatusCode, e.Status),
			"Retry later; report the problem if it persists."

	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		hint = "Check that SPOTR_API_KEY is set to a valid key."
	case e.StatusCode >= http.StatusInternalServerError:
		hint = "The backend failed; retry later."
	case e.StatusCode == http.StatusUnprocessableEntity || e.StatusCode == http.StatusBadRequest:
		hint = "The backend rejected the payload; check it against the tool's input schema."
	}
	cause = fmt.Sprintf("HTTP %d %s", e.StatusCode, e.Status)
	if e.RequestID != "" {
		cause += " (request " + e.RequestID + ")"
	}
	return e.Error() + ".", cause, hint
}

// notFoundHint names the listing tool for the missing kind. Without a kind
// it falls back to the entity the tool itself works on.
func notFoundHint(tool, kind string) string {
	var list string
	if kind != "" {
		list = recoveryTool(kind)
	} else {
		list = recoveryTool(tool)
	}
	switch {
	case list != "" && list != tool:
		return "Call " + list + " to list valid identifiers, then retry with one of them."
	case kind != "" && list == "":
		return "No tool lists " + kind + " identifiers; confirm the " + kind + " ID with the user."
	}
	return "Check the identifier; it may have been deleted."
}

// recoveryTool names the listing tool that recovers a valid identifier for
// the entity a tool works on.
func recoveryTool(tool string) string {
	switch {
	case strings.Contains(tool, "blueprint"):
		return "fetch-all-blueprints"
	case strings.Contains(tool, "program"):
		return "fetch-all-programs"
	case strings.Contains(tool, "movement"):
		return "fetch-all-movements"
	}
	return ""
}

func resourceContents(uri string, body any) (mcp.ResourceContents, error) {
	if text, ok := body.(string); ok {
		return mcp.TextResourceContents{URI: uri, MIMEType: "text/plain", Text: text}, nil
	}
	payload, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", uri, err)
	}
	return mcp.TextResourceContents{URI: uri, MIMEType: "application/json", Text: string(payload)}, nil
}
