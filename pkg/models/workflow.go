package models

import (
	"fmt"
	"time"
)

// WorkflowDocument is the stored, open-ended workflow definition. It may be
// hand-authored or exported from an engine, so its shape is only loosely
// known; field extraction is always explicit and defaulted.
type WorkflowDocument map[string]any

// SourceWorkflowID returns the engine-assigned workflow id embedded in an
// exported document, if any. Some engine versions export numeric ids;
// those come back in decimal string form.
func (d WorkflowDocument) SourceWorkflowID() (string, bool) {
	switch id := d["id"].(type) {
	case string:
		if id == "" {
			return "", false
		}
		return id, true
	case float64:
		return fmt.Sprintf("%.0f", id), true
	default:
		return "", false
	}
}

// Nodes returns the document's node list, or an empty list when absent or
// of the wrong shape.
func (d WorkflowDocument) Nodes() []any {
	if nodes, ok := d["nodes"].([]any); ok {
		return nodes
	}
	return []any{}
}

// Connections returns the document's connection map, or an empty map.
func (d WorkflowDocument) Connections() map[string]any {
	if conns, ok := d["connections"].(map[string]any); ok {
		return conns
	}
	return map[string]any{}
}

// Settings returns the document's settings map, or an empty map.
func (d WorkflowDocument) Settings() map[string]any {
	if settings, ok := d["settings"].(map[string]any); ok {
		return settings
	}
	return map[string]any{}
}

// Automation is a stored workflow definition owned by a workspace. The
// repository link (RepositoryURL + DefinitionPath) is optional; without it
// descriptor-store writes are skipped entirely.
type Automation struct {
	ID             string           `json:"id"`
	WorkspaceID    string           `json:"workspace_id"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	RepositoryURL  string           `json:"repository_url,omitempty"`
	DefinitionPath string           `json:"definition_path,omitempty"`
	Document       WorkflowDocument `json:"document"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// HasRepository reports whether the automation is linked to a descriptor
// store location.
func (a *Automation) HasRepository() bool {
	return a.RepositoryURL != "" && a.DefinitionPath != ""
}
