// Copyright (c) 2020 Siemens AG
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
//
// Author(s): Jonas Plum

// Package toolserver exposes an artifactstore to agents as a set of named
// tools. Requests and responses are exchanged as line delimited json.
package toolserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/qri-io/jsonschema"
	"github.com/spf13/afero"

	"github.com/forensicanalysis/artifactstore"
	"github.com/forensicanalysis/artifactstore/config"
)

const maxRequestSize = 16 * 1024 * 1024

type handler func(ctx context.Context, arguments json.RawMessage) (string, error)

// Tool is a named operation with a json schema for its arguments.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`

	handler handler
	schema  *jsonschema.Schema
}

// Content is a single part of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the outcome of a tool call. Failures are results as well, they
// carry an error message and set IsError.
type Result struct {
	Content           []Content   `json:"content"`
	StructuredContent interface{} `json:"structuredContent,omitempty"`
	IsError           bool        `json:"isError,omitempty"`
}

func textResult(text string) Result {
	return Result{Content: []Content{{Type: "text", Text: text}}}
}

func errorResult(text string) Result {
	result := textResult("Error: " + text)
	result.IsError = true
	return result
}

// Server dispatches tool calls to a Store.
type Server struct {
	store  *artifactstore.Store
	fs     afero.Fs
	cfg    config.Config
	tools  []*Tool
	byName map[string]*Tool
}

// New creates a Server. JSONL files are read from fs.
func New(store *artifactstore.Store, fs afero.Fs, cfg config.Config) (*Server, error) {
	s := &Server{store: store, fs: fs, cfg: cfg, byName: map[string]*Tool{}}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) register(tool *Tool) error {
	if _, ok := s.byName[tool.Name]; ok {
		return fmt.Errorf("duplicate tool %s", tool.Name)
	}
	tool.schema = &jsonschema.Schema{}
	if err := json.Unmarshal(tool.InputSchema, tool.schema); err != nil {
		return errors.Wrapf(err, "invalid schema for tool %s", tool.Name)
	}
	s.tools = append(s.tools, tool)
	s.byName[tool.Name] = tool
	return nil
}

// Tools lists all tools in registration order.
func (s *Server) Tools() []*Tool {
	return s.tools
}

// Call validates the arguments and runs a tool.
func (s *Server) Call(ctx context.Context, name string, arguments json.RawMessage) Result {
	tool, ok := s.byName[name]
	if !ok {
		return errorResult(fmt.Sprintf("Unknown tool: %s", name))
	}
	if len(arguments) == 0 || string(arguments) == "null" {
		arguments = json.RawMessage("{}")
	}

	keyErrs, err := tool.schema.ValidateBytes(ctx, arguments)
	if err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %s", err))
	}
	if len(keyErrs) > 0 {
		var flaws []string
		for _, keyErr := range keyErrs {
			flaws = append(flaws, fmt.Sprintf("%s %s", keyErr.PropertyPath, keyErr.Message))
		}
		return errorResult(fmt.Sprintf("invalid arguments: %s", strings.Join(flaws, ", ")))
	}

	text, err := tool.handler(ctx, arguments)
	if err != nil {
		slog.Error("tool failed", "tool", name, "error", err)
		return errorResult(describe(err))
	}
	result := textResult(text)
	if name == "list_analyses" {
		sessions := []map[string]interface{}{}
		for _, info := range s.store.Sessions() {
			sessions = append(sessions, artifactstore.PlainMap(info))
		}
		result.StructuredContent = map[string]interface{}{"analyses": sessions}
	}
	return result
}

// describe turns store errors into messages for the caller.
func describe(err error) string {
	switch errors.Cause(err) {
	case artifactstore.ErrInvalidDateRange:
		return "Invalid date format. Please use YYYY-MM-DD."
	case artifactstore.ErrSessionNotFound:
		return strings.TrimSuffix(err.Error(), ": "+artifactstore.ErrSessionNotFound.Error()) + " not found"
	}
	return err.Error()
}

// Request is a single line of input.
type Request struct {
	ID     interface{} `json:"id,omitempty"`
	Method string      `json:"method"`
	Params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"params"`
}

// ResponseError reports a request that could not be handled at all.
type ResponseError struct {
	Message string `json:"message"`
}

// Response answers a Request.
type Response struct {
	ID     interface{}    `json:"id,omitempty"`
	Result interface{}    `json:"result,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

func errorResponse(id interface{}, msg string) Response {
	return Response{ID: id, Error: &ResponseError{Message: msg}}
}

// Handle answers a single request.
func (s *Server) Handle(ctx context.Context, req Request) Response {
	switch req.Method {
	case "list_tools", "tools/list":
		return Response{ID: req.ID, Result: map[string]interface{}{"tools": s.tools}}
	case "call_tool", "tools/call":
		slog.Info("tool call", "tool", req.Params.Name)
		return Response{ID: req.ID, Result: s.Call(ctx, req.Params.Name, req.Params.Arguments)}
	}
	return errorResponse(req.ID, fmt.Sprintf("unknown method %q", req.Method))
}

// Serve reads requests from r, one json object per line, and writes one
// response line per request to w until r is exhausted or ctx is done.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var response Response
		var req Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			response = errorResponse(nil, fmt.Sprintf("invalid request: %s", err))
		} else {
			response = s.Handle(ctx, req)
		}
		if err := encoder.Encode(response); err != nil {
			return errors.Wrap(err, "could not write response")
		}
	}
	return scanner.Err()
}
