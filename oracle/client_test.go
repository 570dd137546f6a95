package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFakeClientRecordsRequestsAndReturnsConfiguredConstraints(t *testing.T) {
	fc := &FakeClient{Constraints: []string{"pair: <int> >= 0"}}
	req := Request{PropertyName: "commutativity", GrammarText: "<a> ::= \"x\"\n"}

	got, err := fc.InferConstraints(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "pair: <int> >= 0" {
		t.Fatalf("want the configured constraints back, got %v", got)
	}
	if len(fc.Requests) != 1 || fc.Requests[0].PropertyName != "commutativity" {
		t.Fatalf("want the request recorded verbatim, got %+v", fc.Requests)
	}
}

func TestFakeClientReturnsConfiguredError(t *testing.T) {
	fc := &FakeClient{Err: context.DeadlineExceeded}
	_, err := fc.InferConstraints(context.Background(), Request{})
	if err != context.DeadlineExceeded {
		t.Fatalf("want the configured error back, got %v", err)
	}
}

func TestHTTPClientPostsRequestAndParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("server failed to decode request: %v", err)
		}
		if req.PropertyName != "commutativity" {
			t.Fatalf("want property_name in the posted body, got %q", req.PropertyName)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Response{Constraints: []string{"a: <x> != 0"}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	got, err := c.InferConstraints(context.Background(), Request{PropertyName: "commutativity"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "a: <x> != 0" {
		t.Fatalf("want the server's constraints back, got %v", got)
	}
}

func TestHTTPClientNon200IsAnOracleError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.InferConstraints(context.Background(), Request{})
	if err == nil {
		t.Fatalf("want a non-200 response to surface as an error")
	}
}
