// Package oracle calls the external constraint-inference service C7 uses
// to turn a property's failing witnesses into candidate grammar
// constraints (spec.md §4.7, §6's oracle contract).
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nihei9/infergen/internal/specerr"
)

// Request is the oracle call's input shape, exactly spec.md §6.
type Request struct {
	GrammarText         string   `json:"grammar_text"`
	PropertyName        string   `json:"property_name"`
	PropertyDescription string   `json:"property_description"`
	Counterexamples     []string `json:"counterexamples"`
}

// Response is the oracle call's output shape, exactly spec.md §6.
type Response struct {
	Constraints []string `json:"constraints"`
}

// Client is the C7 contract: infer candidate constraints from a grammar and
// its failing witnesses. HTTPClient's errors are always
// *specerr.OracleError; FakeClient returns its configured Err unchanged.
// Callers treat any error (or a malformed/non-200 HTTP response) as an
// empty-constraints response, per spec.md §6.
type Client interface {
	InferConstraints(ctx context.Context, req Request) ([]string, error)
}

// DefaultTimeout is the per-call bound spec.md §5 names (30s).
const DefaultTimeout = 30 * time.Second

// HTTPClient is the net/http + encoding/json adapter: a single
// request/response exchange against a JSON endpoint, no streaming or
// multi-turn state (see DESIGN.md for why this stays on the standard
// library instead of a corpus LLM-client dependency).
type HTTPClient struct {
	URL     string
	HTTP    *http.Client
	Timeout time.Duration
}

// NewHTTPClient builds a client against url with the default timeout and a
// bare *http.Client (no custom transport needed for a single JSON POST).
func NewHTTPClient(url string) *HTTPClient {
	return &HTTPClient{URL: url, HTTP: &http.Client{}, Timeout: DefaultTimeout}
}

func (c *HTTPClient) InferConstraints(ctx context.Context, req Request) ([]string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &specerr.OracleError{Reason: fmt.Sprintf("marshaling request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, &specerr.OracleError{Reason: fmt.Sprintf("building request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, &specerr.OracleError{Reason: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &specerr.OracleError{Reason: fmt.Sprintf("non-200 response: %d", resp.StatusCode)}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &specerr.OracleError{Reason: fmt.Sprintf("malformed response: %v", err)}
	}
	return out.Constraints, nil
}

// FakeClient is a deterministic in-memory stand-in for tests: it returns
// whatever Constraints is set to, regardless of the request, or Err if set.
type FakeClient struct {
	Constraints []string
	Err         error
	Requests    []Request
}

func (c *FakeClient) InferConstraints(ctx context.Context, req Request) ([]string, error) {
	c.Requests = append(c.Requests, req)
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Constraints, nil
}
