package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"communityhub/pkg/circuitbreaker"
)

// FunctionClient invokes hosted functions by name. The delivery worker
// lives behind this gateway; this service only ever nudges it.
type FunctionClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

func NewFunctionClient(baseURL string) *FunctionClient {
	return &FunctionClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second, // the worker drains a whole batch synchronously
		},
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
	}
}

// ProcessResult is the worker's response to a process invocation.
type ProcessResult struct {
	Success   bool   `json:"success"`
	Processed int    `json:"processed"`
	Sent      int    `json:"sent"`
	Failed    int    `json:"failed"`
	Error     string `json:"error,omitempty"`
}

// Invoke calls a named function with a JSON payload, under circuit-breaker
// protection so a wedged gateway fails fast instead of tying up handlers.
func (c *FunctionClient) Invoke(ctx context.Context, name string, payload any) (*ProcessResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var result ProcessResult
	err = c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+name, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to call functions gateway: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("functions gateway returned 5xx: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("functions gateway error: %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&result)
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// ProcessTestEmails triggers an immediate delivery pass over the queue.
func (s *Service) ProcessTestEmails(ctx context.Context) (*ProcessResult, error) {
	return s.fn.Invoke(ctx, "process-notifications", map[string]string{"trigger": "test"})
}
