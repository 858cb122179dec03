// Package mcp exposes the query pipeline as tools over the Model Context
// Protocol's stdio transport. The server speaks line-delimited JSON-RPC 2.0
// and contains no business logic of its own.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"steelintel/internal/services"
)

const protocolVersion = "2024-11-05"

// request is an incoming JSON-RPC message
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// response is an outgoing JSON-RPC message
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// textContent is the MCP text content block
type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// toolResult is the result envelope for tools/call
type toolResult struct {
	Content []textContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// Server adapts the query provider to the tool protocol
type Server struct {
	provider services.QueryProvider
	logger   *log.Logger
	in       io.Reader
	out      io.Writer
}

// NewServer creates a tool server reading requests from in and writing
// responses to out (stdin/stdout in production)
func NewServer(provider services.QueryProvider, logger *log.Logger, in io.Reader, out io.Writer) *Server {
	return &Server{
		provider: provider,
		logger:   logger,
		in:       in,
		out:      out,
	}
}

// Run serves requests until the input stream closes or the context is
// cancelled
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Printf("Dropping unparseable request: %v", err)
			continue
		}

		// Notifications carry no ID and get no response.
		if req.ID == nil {
			continue
		}

		resp := s.handle(ctx, &req)
		if err := s.write(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}

	return scanner.Err()
}

func (s *Server) handle(ctx context.Context, req *request) *response {
	resp := &response{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "steelintel",
				"version": "1.0.0",
			},
		}

	case "ping":
		resp.Result = map[string]interface{}{}

	case "tools/list":
		resp.Result = map[string]interface{}{
			"tools": toolDefinitions(),
		}

	case "tools/call":
		var params struct {
			Name      string          `json:"name"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &rpcError{Code: codeInvalidParams, Message: "invalid tool call params: " + err.Error()}
			break
		}

		result, err := s.callTool(ctx, params.Name, params.Arguments)
		if err != nil {
			resp.Error = &rpcError{Code: codeInternalError, Message: err.Error()}
			break
		}
		resp.Result = result

	default:
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: "method not found: " + req.Method}
	}

	return resp
}

func (s *Server) write(resp *response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = s.out.Write(data)
	return err
}
