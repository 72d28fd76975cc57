package playground

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/nihei9/arvo/driver/parser"
)

type testResponse struct {
	ID     int `json:"id"`
	Result *struct {
		Status string         `json:"status"`
		Errors []*syntaxError `json:"errors"`
		Cause  string         `json:"cause"`
		Tree   map[string]any `json:"tree"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

func dial(t *testing.T, s *Server) (*websocket.Conn, func()) {
	t.Helper()

	ts := httptest.NewServer(s)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		ts.Close()
		t.Fatal(err)
	}
	return conn, func() {
		conn.Close()
		ts.Close()
	}
}

func TestServer(t *testing.T) {
	tests := []struct {
		req      string
		status   string
		errCount int
		hasTree  bool
		treeKind string
		errCode  int
	}{
		{
			req:      `{"id": 0, "method": "parse", "params": {"source": "module m { fn f(): int { 1 + 2 } }"}}`,
			status:   "accepted",
			hasTree:  true,
			treeKind: "root",
		},
		{
			req:      `{"id": 1, "method": "parse", "params": {"source": "module m { fn f() {} ; fn g() {} }"}}`,
			status:   "rejected",
			errCount: 1,
			hasTree:  true,
			treeKind: "root",
		},
		{
			req:      `{"id": 2, "method": "parse", "params": {"source": "module m { fn f("}}`,
			status:   "aborted",
			errCount: 1,
		},
		{
			req:     `{"id": 3, "method": "parseCST", "params": {"source": "x: int;"}}`,
			status:  "accepted",
			hasTree: true,
		},
		{
			req:     `{"id": 4, "method": "format", "params": {}}`,
			errCode: codeMethodNotFound,
		},
		{
			req:     `{"id": 5, "method": "parse", "params": "module"}`,
			errCode: codeInvalidParams,
		},
	}

	conn, closeConn := dial(t, NewServer())
	defer closeConn()

	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.req)); err != nil {
				t.Fatal(err)
			}
			var resp testResponse
			if err := conn.ReadJSON(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.ID != i {
				t.Fatalf("unexpected ID; want: %v, got: %v", i, resp.ID)
			}
			if tt.errCode != 0 {
				if resp.Error == nil || resp.Error.Code != tt.errCode {
					t.Fatalf("unexpected error; want: %v, got: %+v", tt.errCode, resp.Error)
				}
				return
			}
			if resp.Error != nil {
				t.Fatalf("unexpected error: %+v", resp.Error)
			}
			r := resp.Result
			if r.Status != tt.status {
				t.Fatalf("unexpected status; want: %v, got: %v", tt.status, r.Status)
			}
			if len(r.Errors) != tt.errCount {
				t.Fatalf("unexpected errors; want: %v, got: %+v", tt.errCount, r.Errors)
			}
			if (r.Tree != nil) != tt.hasTree {
				t.Fatalf("unexpected tree: %v", r.Tree)
			}
			if tt.treeKind != "" && r.Tree["kind"] != tt.treeKind {
				t.Fatalf("unexpected tree kind: %v", r.Tree["kind"])
			}
		})
	}
}

func TestServer_MalformedRequest(t *testing.T) {
	conn, closeConn := dial(t, NewServer())
	defer closeConn()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{`)); err != nil {
		t.Fatal(err)
	}
	var resp testResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error == nil || resp.Error.Code != codeParseError {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestServer_NotFound(t *testing.T) {
	ts := httptest.NewServer(NewServer())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status: %v", resp.StatusCode)
	}
}

func TestNewParseResult(t *testing.T) {
	r := newParseResult(parser.StatusAccepted, nil, nil)
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"status":"accepted","errors":[]}` {
		t.Fatalf("unexpected JSON: %v", string(b))
	}
}
