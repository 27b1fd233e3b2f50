package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// LoggingMiddleware logs every method call with its duration. Tool calls add
// the tool and the sample sets named in their arguments, resource reads the
// URI and its set, prompt requests the prompt name.
//
// A tool that fails returns a result flagged IsError instead of an error;
// those are logged as warnings with the message the client sees.
func LoggingMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			start := time.Now()

			result, err := next(ctx, method, req)

			attrs := []slog.Attr{slog.String("method", method)}
			attrs = append(attrs, requestAttrs(req)...)
			attrs = append(attrs, slog.Int64("duration_ms", time.Since(start).Milliseconds()))

			switch {
			case err != nil:
				attrs = append(attrs, slog.String("error", err.Error()))
				slog.LogAttrs(ctx, slog.LevelError, "method call failed", attrs...)
			case toolFailed(result):
				attrs = append(attrs, slog.String("error", toolErrorText(result)))
				slog.LogAttrs(ctx, slog.LevelWarn, "tool returned error", attrs...)
			default:
				slog.LogAttrs(ctx, slog.LevelInfo, "method call completed", attrs...)
			}

			return result, err
		}
	}
}

// setArguments are the tool arguments that name stored sample sets.
type setArguments struct {
	Name      string `json:"name"`
	SchemaSet string `json:"schema_set"`
}

func requestAttrs(req sdkmcp.Request) []slog.Attr {
	switch r := req.(type) {
	case *sdkmcp.CallToolRequest:
		if r.Params == nil {
			return nil
		}
		attrs := []slog.Attr{slog.String("tool", r.Params.Name)}
		return append(attrs, setAttrs(r.Params.Arguments)...)

	case *sdkmcp.ReadResourceRequest:
		if r.Params == nil {
			return nil
		}
		attrs := []slog.Attr{slog.String("uri", r.Params.URI)}
		if params, err := parseResourceURI(r.Params.URI); err == nil {
			attrs = append(attrs, slog.String("set", params["name"]))
		}
		return attrs

	case *sdkmcp.GetPromptRequest:
		if r.Params == nil {
			return nil
		}
		return []slog.Attr{slog.String("prompt", r.Params.Name)}
	}
	return nil
}

func setAttrs(raw json.RawMessage) []slog.Attr {
	if len(raw) == 0 {
		return nil
	}
	var args setArguments
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil
	}

	var attrs []slog.Attr
	if args.Name != "" {
		attrs = append(attrs, slog.String("set", args.Name))
	}
	if args.SchemaSet != "" && args.SchemaSet != args.Name {
		attrs = append(attrs, slog.String("schema_set", args.SchemaSet))
	}
	return attrs
}

func toolFailed(result sdkmcp.Result) bool {
	r, ok := result.(*sdkmcp.CallToolResult)
	return ok && r != nil && r.IsError
}

func toolErrorText(result sdkmcp.Result) string {
	r := result.(*sdkmcp.CallToolResult)
	for _, c := range r.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	return "unknown tool error"
}
