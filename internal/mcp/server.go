// Package mcp exposes the diary HTTP API as MCP tools over stdio.
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const protocolVersion = "2024-11-05"

// Server implements an MCP stdio server that delegates to the HTTP diary server.
type Server struct {
	serverURL string
	client    *http.Client
	in        io.Reader
	out       io.Writer
	outMu     sync.Mutex
}

// NewServer creates a server reading requests from in and writing responses
// to out, one JSON object per line.
func NewServer(serverURL string, in io.Reader, out io.Writer) *Server {
	return &Server{
		serverURL: strings.TrimRight(serverURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		in:  in,
		out: out,
	}
}

// Run processes requests until in is exhausted or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	// Increase buffer for large messages
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(errorResponse(nil, codeParseError, "parse error: "+err.Error()))
			continue
		}

		if resp := s.handleRequest(ctx, &req); resp != nil {
			s.writeResponse(resp)
		}
	}

	return scanner.Err()
}

func (s *Server) handleRequest(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case "initialize":
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: InitializeResult{
				ProtocolVersion: protocolVersion,
				Capabilities:    ServerCapabilities{Tools: &ToolCapabilities{}},
				ServerInfo:      ServerInfo{Name: "air-moments-diary", Version: "1.0.0"},
			},
		}
	case "initialized", "notifications/initialized":
		// notification, no response
		return nil
	case "tools/list":
		return &Response{JSONRPC: "2.0", ID: req.ID, Result: ToolsListResult{Tools: ToolDefinitions()}}
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &Response{JSONRPC: "2.0", ID: req.ID, Result: map[string]string{}}
	default:
		return errorResponse(req.ID, codeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) handleToolsCall(ctx context.Context, req *Request) *Response {
	paramsBytes, err := json.Marshal(req.Params)
	if err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid params")
	}

	var params CallToolParams
	if err := json.Unmarshal(paramsBytes, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid params: "+err.Error())
	}

	result, isError := s.dispatchTool(ctx, params.Name, params.Arguments)

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: CallToolResult{
			Content: []ContentBlock{{Type: "text", Text: result}},
			IsError: isError,
		},
	}
}

func (s *Server) dispatchTool(ctx context.Context, name string, args map[string]any) (string, bool) {
	switch name {
	case "diary_list_memories":
		q := url.Values{}
		if c := getString(args, "category"); c != "" {
			q.Set("category", c)
		}
		return s.do(ctx, http.MethodGet, withQuery("/memories", q), nil)
	case "diary_day":
		date := getString(args, "date")
		if date == "" {
			return "date is required", true
		}
		return s.do(ctx, http.MethodGet, "/days/"+url.PathEscape(date), nil)
	case "diary_add_memory":
		return s.do(ctx, http.MethodPost, "/memories", pick(args, "category", "title", "description", "dateISO"))
	case "diary_update_memory":
		id := getString(args, "id")
		if id == "" {
			return "id is required", true
		}
		return s.do(ctx, http.MethodPatch, "/memories/"+url.PathEscape(id), pick(args, "category", "title", "description", "dateISO"))
	case "diary_remove_memory":
		id := getString(args, "id")
		if id == "" {
			return "id is required", true
		}
		if text, isErr := s.do(ctx, http.MethodDelete, "/memories/"+url.PathEscape(id), nil); isErr {
			return text, true
		}
		return fmt.Sprintf("removed %s", id), false
	case "diary_calendar":
		q := url.Values{}
		if m := getString(args, "month"); m != "" {
			q.Set("month", m)
		}
		return s.do(ctx, http.MethodGet, withQuery("/calendar", q), nil)
	case "diary_rewards":
		return s.do(ctx, http.MethodGet, "/rewards", nil)
	case "diary_add_points":
		return s.do(ctx, http.MethodPost, "/rewards/points", map[string]any{"amount": getInt(args, "amount", 0)})
	case "diary_purchase_tip":
		id := getString(args, "tipId")
		if id == "" {
			return "tipId is required", true
		}
		return s.do(ctx, http.MethodPost, "/tips/"+url.PathEscape(id)+"/purchase", nil)
	default:
		return fmt.Sprintf("unknown tool: %s", name), true
	}
}

// --- HTTP helpers ---

// do sends one request and returns the body text. Status codes of 400 and
// above are reported as tool errors.
func (s *Server) do(ctx context.Context, method, path string, body any) (string, bool) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Sprintf("marshal error: %s", err), true
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.serverURL+path, reader)
	if err != nil {
		return fmt.Sprintf("request error: %s", err), true
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Sprintf("HTTP error: %s", err), true
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("read error: %s", err), true
	}

	text := strings.TrimSpace(string(respBody))
	return text, resp.StatusCode >= 400
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// --- Response helpers ---

func (s *Server) writeResponse(resp *Response) {
	data, _ := json.Marshal(resp)
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, "%s\n", data)
}

func errorResponse(id any, code int, message string) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	}
}

// --- Argument helpers ---

func getString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func getInt(args map[string]any, key string, fallback int) int {
	if v, ok := args[key]; ok {
		switch val := v.(type) {
		case float64:
			return int(val)
		case int:
			return val
		}
	}
	return fallback
}

// pick copies the present keys of args into a request body.
func pick(args map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := args[k]; ok {
			out[k] = v
		}
	}
	return out
}
