package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cfncontract/harness/internal/project"
	"github.com/cfncontract/harness/internal/runner"
)

// New is the default Factory: an HTTP client speaking the local lambda
// emulator invocation protocol at the configured endpoint.
func New(cfg ClientConfig, kind project.Kind) (Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("transport requires an endpoint")
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", cfg.Endpoint, err)
	}
	name := runner.ResourceClientName
	if kind == project.KindHook {
		name = runner.HookClientName
	}
	return &httpClient{
		cfg:  cfg,
		name: name,
		web:  &http.Client{Timeout: time.Duration(cfg.EnforceTimeout) * time.Second},
	}, nil
}

type httpClient struct {
	cfg  ClientConfig
	name string
	web  *http.Client
}

func (c *httpClient) Name() string         { return c.name }
func (c *httpClient) Config() ClientConfig { return c.cfg }

// Invoke posts the request payload to the emulator's invocation URL for
// the configured function and decodes the JSON response.
func (c *httpClient) Invoke(ctx context.Context, operation string, request map[string]any) (map[string]any, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", operation, err)
	}
	invokeURL := fmt.Sprintf("%s/2015-03-31/functions/%s/invocations", c.cfg.Endpoint, c.cfg.FunctionName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, invokeURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range c.cfg.Headers() {
		if value != "" {
			req.Header.Set(key, value)
		}
	}

	resp, err := c.web.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoking %s: %w", operation, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invoking %s: unexpected status %s", operation, resp.Status)
	}

	var response map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", operation, err)
	}
	return response, nil
}
