// Package engine is the HTTP client for workflow-execution engine
// instances. Instances are third-party operator infrastructure, so every
// call is context-bound and carries a hard client timeout.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"automation-hub/backend/pkg/models"
)

const apiKeyHeader = "X-N8N-API-KEY"

// Payload is the minimal workflow shape an engine accepts on create and
// update. Anything else an exported document carries (engine-assigned id,
// version stamps, active flag) is rejected by engines as read-only.
type Payload struct {
	Name        string         `json:"name"`
	Nodes       []any          `json:"nodes"`
	Connections map[string]any `json:"connections"`
	Settings    map[string]any `json:"settings"`
}

// Credentials address one engine instance. APIKey is the decrypted key; it
// lives only for the duration of the call.
type Credentials struct {
	BaseURL string
	APIKey  string
}

// WorkflowSummary is the normalized list entry returned by ListWorkflows.
type WorkflowSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// CallError is a non-success response from an engine. Status code and body
// are passed through verbatim so operators see what the engine said.
type CallError struct {
	StatusCode int
	Body       string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("engine API error (status %d): %s", e.StatusCode, e.Body)
}

// Client talks to execution engine instances.
type Client interface {
	// CreateWorkflow pushes a new workflow and returns the engine-assigned id.
	CreateWorkflow(ctx context.Context, creds Credentials, payload Payload) (string, error)
	// UpdateWorkflow replaces an existing workflow in place.
	UpdateWorkflow(ctx context.Context, creds Credentials, workflowID string, payload Payload) error
	// SetActive activates or deactivates a workflow.
	SetActive(ctx context.Context, creds Credentials, workflowID string, active bool) error
	// GetWorkflow fetches the full exported document for a workflow.
	GetWorkflow(ctx context.Context, creds Credentials, workflowID string) (models.WorkflowDocument, error)
	// ListWorkflows lists the workflows on an instance.
	ListWorkflows(ctx context.Context, creds Credentials) ([]WorkflowSummary, error)
}

// HTTPClient is the HTTP implementation of Client.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a new HTTPClient with the given per-call timeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// CreateWorkflow pushes a new workflow and returns the engine-assigned id.
func (c *HTTPClient) CreateWorkflow(ctx context.Context, creds Credentials, payload Payload) (string, error) {
	body, err := c.do(ctx, creds, http.MethodPost, "/api/v1/workflows", payload)
	if err != nil {
		return "", err
	}

	var created map[string]any
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to decode engine response: %w", err)
	}
	id := workflowID(created)
	if id == "" {
		return "", fmt.Errorf("engine response missing workflow id")
	}
	return id, nil
}

// UpdateWorkflow replaces an existing workflow in place.
func (c *HTTPClient) UpdateWorkflow(ctx context.Context, creds Credentials, workflowID string, payload Payload) error {
	_, err := c.do(ctx, creds, http.MethodPut, "/api/v1/workflows/"+workflowID, payload)
	return err
}

// SetActive activates or deactivates a workflow.
func (c *HTTPClient) SetActive(ctx context.Context, creds Credentials, workflowID string, active bool) error {
	action := "deactivate"
	if active {
		action = "activate"
	}
	_, err := c.do(ctx, creds, http.MethodPost, "/api/v1/workflows/"+workflowID+"/"+action, nil)
	return err
}

// GetWorkflow fetches the full exported document for a workflow.
func (c *HTTPClient) GetWorkflow(ctx context.Context, creds Credentials, workflowID string) (models.WorkflowDocument, error) {
	body, err := c.do(ctx, creds, http.MethodGet, "/api/v1/workflows/"+workflowID, nil)
	if err != nil {
		return nil, err
	}

	var doc models.WorkflowDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode engine response: %w", err)
	}
	return doc, nil
}

// ListWorkflows lists the workflows on an instance, normalizing the
// engine's envelope to WorkflowSummary entries.
func (c *HTTPClient) ListWorkflows(ctx context.Context, creds Credentials) ([]WorkflowSummary, error) {
	body, err := c.do(ctx, creds, http.MethodGet, "/api/v1/workflows", nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode engine response: %w", err)
	}

	summaries := make([]WorkflowSummary, 0, len(envelope.Data))
	for _, entry := range envelope.Data {
		summary := WorkflowSummary{
			ID:   workflowID(entry),
			Name: "Untitled Workflow",
		}
		if name, ok := entry["name"].(string); ok && name != "" {
			summary.Name = name
		}
		if active, ok := entry["active"].(bool); ok {
			summary.Active = active
		}
		if created, ok := entry["createdAt"].(string); ok {
			summary.CreatedAt = created
		}
		if updated, ok := entry["updatedAt"].(string); ok {
			summary.UpdatedAt = updated
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (c *HTTPClient) do(ctx context.Context, creds Credentials, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	url := strings.TrimRight(creds.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, creds.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach engine instance: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &CallError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// workflowID extracts the engine-assigned id from a decoded workflow
// object. Some engine versions return numeric ids.
func workflowID(doc map[string]any) string {
	switch id := doc["id"].(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return ""
	}
}
