package repository

import (
	"context"
	"errors"

	"automation-hub/backend/pkg/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// WorkspaceStore persists workspaces.
type WorkspaceStore interface {
	CreateWorkspace(ctx context.Context, ws *models.Workspace) error
	GetWorkspace(ctx context.Context, id string) (*models.Workspace, error)
}

// SpaceStore persists deployment targets.
type SpaceStore interface {
	CreateSpace(ctx context.Context, space *models.Space) error
	GetSpace(ctx context.Context, id string) (*models.Space, error)
	ListSpaces(ctx context.Context, workspaceID string) ([]*models.Space, error)
}

// InstanceStore persists engine instances and answers the two resolver
// lookups: the instance bound to a space, and the workspace-master
// instance (space reference null).
type InstanceStore interface {
	CreateInstance(ctx context.Context, instance *models.EngineInstance) error
	GetInstanceForSpace(ctx context.Context, spaceID string) (*models.EngineInstance, error)
	GetMasterInstance(ctx context.Context, workspaceID string) (*models.EngineInstance, error)
	// UpsertMasterInstance creates or replaces the single master instance
	// of a workspace.
	UpsertMasterInstance(ctx context.Context, instance *models.EngineInstance) error
}

// AutomationStore persists workflow definitions.
type AutomationStore interface {
	CreateAutomation(ctx context.Context, automation *models.Automation) error
	GetAutomation(ctx context.Context, id string) (*models.Automation, error)
	ListAutomations(ctx context.Context, workspaceID string) ([]*models.Automation, error)
	// UpdateAutomationDocument overwrites the stored workflow document.
	UpdateAutomationDocument(ctx context.Context, id string, doc models.WorkflowDocument) error
}

// DeploymentStore is the deployment ledger. Upserts are keyed by
// (automation, space); that uniqueness constraint is the idempotency
// guarantee for repeated deploys.
type DeploymentStore interface {
	// UpsertDeployment inserts the ledger row for (automation, space) or
	// updates the existing one in place, returning the stored row.
	UpsertDeployment(ctx context.Context, d *models.Deployment) (*models.Deployment, error)
	GetDeployment(ctx context.Context, id string) (*models.Deployment, error)
	ListDeploymentsForSpace(ctx context.Context, spaceID string) ([]*models.Deployment, error)
	SetDeploymentActive(ctx context.Context, id string, active bool) error
	// TouchDeployment bumps updated_at without changing anything else.
	TouchDeployment(ctx context.Context, id string) error
}

// CredentialStore persists vault ciphertexts, one per principal.
type CredentialStore interface {
	UpsertCredential(ctx context.Context, principalID, ciphertext string) error
	GetCredential(ctx context.Context, principalID string) (*models.Credential, error)
}

// Store is the full persistence surface backed by postgres.
type Store interface {
	WorkspaceStore
	SpaceStore
	InstanceStore
	AutomationStore
	DeploymentStore
	CredentialStore
}
