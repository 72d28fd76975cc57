// Package playground parses Arvo sources sent over a WebSocket.
package playground

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/nihei9/arvo/ast"
	"github.com/nihei9/arvo/driver/parser"
	"github.com/nihei9/arvo/syntax"
	"github.com/tliron/commonlog"
)

const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

type Server struct {
	upgrader websocket.Upgrader
	opts     []parser.ParserOption
	log      commonlog.Logger
}

type rpcRequest struct {
	ID     any             `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	ID     any       `json:"id"`
	Result any       `json:"result,omitempty"`
	Error  *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type parseParams struct {
	Source string `json:"source"`
}

type syntaxError struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

type parseResult struct {
	Status string         `json:"status"`
	Errors []*syntaxError `json:"errors"`
	Cause  string         `json:"cause,omitempty"`
	Tree   any            `json:"tree,omitempty"`
}

// NewServer returns a playground. `opts` are passed to the parser on every request.
func NewServer(opts ...parser.ParserOption) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		opts: opts,
		log:  commonlog.GetLogger("arvo.playground"),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/ws" {
		http.NotFound(w, r)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warningf("websocket upgrade: %v", err)
		return
	}
	s.log.Debugf("connected: %v", conn.RemoteAddr())

	defer func() {
		conn.Close()
		s.log.Debugf("disconnected: %v", conn.RemoteAddr())
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		resp := s.handle(msg)
		data, err := json.Marshal(resp)
		if err != nil {
			s.log.Errorf("failed to marshal a response: %v", err)
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (s *Server) handle(msg []byte) *rpcResponse {
	var req rpcRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return errorResponse(nil, codeParseError, fmt.Sprintf("malformed request: %v", err))
	}

	switch req.Method {
	case "parse":
		return s.rpcParse(req)
	case "parseCST":
		return s.rpcParseCST(req)
	default:
		return errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("unknown method: %s", req.Method))
	}
}

func (s *Server) rpcParse(req rpcRequest) *rpcResponse {
	var params parseParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, err.Error())
	}
	res, err := syntax.Parse(strings.NewReader(params.Source), s.opts...)
	if err != nil {
		return errorResponse(req.ID, codeInternalError, err.Error())
	}

	result := newParseResult(res.Status, res.SyntaxErrors, res.Cause)
	if res.Root != nil {
		result.Tree = ast.Dump(res.Root)
	}
	return &rpcResponse{
		ID:     req.ID,
		Result: result,
	}
}

func (s *Server) rpcParseCST(req rpcRequest) *rpcResponse {
	var params parseParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, err.Error())
	}
	res, err := syntax.ParseCST(strings.NewReader(params.Source), s.opts...)
	if err != nil {
		return errorResponse(req.ID, codeInternalError, err.Error())
	}

	result := newParseResult(res.Status, res.SyntaxErrors, res.Cause)
	if n, ok := res.Value.(*parser.Node); ok && res.Status != parser.StatusAborted {
		result.Tree = n
	}
	return &rpcResponse{
		ID:     req.ID,
		Result: result,
	}
}

func newParseResult(status parser.Status, synErrs []*parser.SyntaxError, cause error) *parseResult {
	r := &parseResult{
		Status: status.String(),
		Errors: make([]*syntaxError, len(synErrs)),
	}
	for i, e := range synErrs {
		r.Errors[i] = &syntaxError{
			Row:     e.Row,
			Col:     e.Col,
			Message: e.Message,
		}
	}
	if cause != nil {
		r.Cause = cause.Error()
	}
	return r
}

func errorResponse(id any, code int, msg string) *rpcResponse {
	return &rpcResponse{
		ID: id,
		Error: &rpcError{
			Code:    code,
			Message: msg,
		},
	}
}
