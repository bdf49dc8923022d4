// Package models defines the domain models for the deployment service
package models

import (
	"time"
)

// SpaceKind categorizes a deployment target.
type SpaceKind string

const (
	SpaceKindClient     SpaceKind = "client"
	SpaceKindInternal   SpaceKind = "internal"
	SpaceKindDemo       SpaceKind = "demo"
	SpaceKindTesting    SpaceKind = "testing"
	SpaceKindStaging    SpaceKind = "staging"
	SpaceKindProduction SpaceKind = "production"
)

// Platform identifies which execution-engine flavor a space targets.
type Platform string

const (
	PlatformN8N    Platform = "n8n"
	PlatformZapier Platform = "zapier"
	PlatformMake   Platform = "make"
	PlatformCustom Platform = "custom"
)

// Space is an isolated deployment target inside a workspace. Names are
// unique per (workspace, name).
type Space struct {
	ID          string         `json:"id"`
	WorkspaceID string         `json:"workspace_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Kind        SpaceKind      `json:"kind"`
	Platform    Platform       `json:"platform"`
	Email       string         `json:"email,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// EngineInstance is an endpoint+credential pair for a workflow-execution
// engine. SpaceID nil means this is the workspace-master instance; at most
// one master exists per workspace and at most one instance per space.
type EngineInstance struct {
	ID          string  `json:"id"`
	WorkspaceID string  `json:"workspace_id"`
	SpaceID     *string `json:"space_id,omitempty"`
	URL         string  `json:"url"`
	// APIKey holds the vault ciphertext, never the plaintext key.
	APIKey    string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsMaster reports whether the instance is the workspace-master (not bound
// to any one space).
func (i *EngineInstance) IsMaster() bool {
	return i.SpaceID == nil
}

// Deployment is the ledger record that an automation is live on a space.
// One row exists per (automation, space); repeated deploys update it in
// place.
type Deployment struct {
	ID                string    `json:"id"`
	AutomationID      string    `json:"automation_id"`
	SpaceID           string    `json:"space_id"`
	EngineWorkflowID  string    `json:"engine_workflow_id"`
	SyncedFingerprint string    `json:"synced_fingerprint,omitempty"`
	DescriptorPath    string    `json:"descriptor_path,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
