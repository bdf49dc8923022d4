package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"automation-hub/backend/pkg/models"
)

//go:embed schema.sql
var schema string

// PostgresStore is a PostgreSQL implementation of the Store interface.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate applies the embedded schema. All statements are idempotent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// CreateWorkspace saves a workspace.
func (s *PostgresStore) CreateWorkspace(ctx context.Context, ws *models.Workspace) error {
	if ws.ID == "" {
		ws.ID = uuid.New().String()
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO workspaces (id, name, description, repository_url, master_instance_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		ws.ID, ws.Name, ws.Description, ws.RepositoryURL, ws.MasterInstanceID,
	).Scan(&ws.CreatedAt, &ws.UpdatedAt)
	return err
}

// GetWorkspace retrieves a workspace by its ID.
func (s *PostgresStore) GetWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	var ws models.Workspace
	err := s.db.QueryRow(ctx,
		`SELECT id, name, description, repository_url, master_instance_id, created_at, updated_at
		 FROM workspaces WHERE id = $1`, id,
	).Scan(&ws.ID, &ws.Name, &ws.Description, &ws.RepositoryURL, &ws.MasterInstanceID, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &ws, nil
}

// CreateSpace saves a space. The (workspace, name) pair must be unique.
func (s *PostgresStore) CreateSpace(ctx context.Context, space *models.Space) error {
	if space.ID == "" {
		space.ID = uuid.New().String()
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO spaces (id, workspace_id, name, description, kind, platform, email, config, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		space.ID, space.WorkspaceID, space.Name, space.Description, space.Kind,
		space.Platform, space.Email, space.Config, space.IsActive,
	).Scan(&space.CreatedAt, &space.UpdatedAt)
	return err
}

// GetSpace retrieves a space by its ID.
func (s *PostgresStore) GetSpace(ctx context.Context, id string) (*models.Space, error) {
	var space models.Space
	err := s.db.QueryRow(ctx,
		`SELECT id, workspace_id, name, description, kind, platform, email, config, is_active, created_at, updated_at
		 FROM spaces WHERE id = $1`, id,
	).Scan(&space.ID, &space.WorkspaceID, &space.Name, &space.Description, &space.Kind,
		&space.Platform, &space.Email, &space.Config, &space.IsActive, &space.CreatedAt, &space.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &space, nil
}

// ListSpaces lists all spaces in a workspace, newest first.
func (s *PostgresStore) ListSpaces(ctx context.Context, workspaceID string) ([]*models.Space, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, workspace_id, name, description, kind, platform, email, config, is_active, created_at, updated_at
		 FROM spaces WHERE workspace_id = $1 ORDER BY created_at DESC`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spaces []*models.Space
	for rows.Next() {
		var space models.Space
		err := rows.Scan(&space.ID, &space.WorkspaceID, &space.Name, &space.Description, &space.Kind,
			&space.Platform, &space.Email, &space.Config, &space.IsActive, &space.CreatedAt, &space.UpdatedAt)
		if err != nil {
			return nil, err
		}
		spaces = append(spaces, &space)
	}
	return spaces, rows.Err()
}

// CreateInstance saves an engine instance. The partial unique indexes
// reject a second master per workspace or a second instance per space.
func (s *PostgresStore) CreateInstance(ctx context.Context, instance *models.EngineInstance) error {
	if instance.ID == "" {
		instance.ID = uuid.New().String()
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO engine_instances (id, workspace_id, space_id, url, api_key)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		instance.ID, instance.WorkspaceID, instance.SpaceID, instance.URL, instance.APIKey,
	).Scan(&instance.CreatedAt, &instance.UpdatedAt)
	return err
}

// GetInstanceForSpace retrieves the instance bound to a space.
func (s *PostgresStore) GetInstanceForSpace(ctx context.Context, spaceID string) (*models.EngineInstance, error) {
	return s.getInstance(ctx,
		`SELECT id, workspace_id, space_id, url, api_key, created_at, updated_at
		 FROM engine_instances WHERE space_id = $1`, spaceID)
}

// GetMasterInstance retrieves the workspace-master instance (the one with
// no space reference).
func (s *PostgresStore) GetMasterInstance(ctx context.Context, workspaceID string) (*models.EngineInstance, error) {
	return s.getInstance(ctx,
		`SELECT id, workspace_id, space_id, url, api_key, created_at, updated_at
		 FROM engine_instances WHERE workspace_id = $1 AND space_id IS NULL`, workspaceID)
}

func (s *PostgresStore) getInstance(ctx context.Context, query string, arg any) (*models.EngineInstance, error) {
	var instance models.EngineInstance
	err := s.db.QueryRow(ctx, query, arg).Scan(&instance.ID, &instance.WorkspaceID, &instance.SpaceID,
		&instance.URL, &instance.APIKey, &instance.CreatedAt, &instance.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &instance, nil
}

// UpsertMasterInstance creates or replaces the workspace-master instance.
func (s *PostgresStore) UpsertMasterInstance(ctx context.Context, instance *models.EngineInstance) error {
	if instance.ID == "" {
		instance.ID = uuid.New().String()
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO engine_instances (id, workspace_id, space_id, url, api_key)
		 VALUES ($1, $2, NULL, $3, $4)
		 ON CONFLICT (workspace_id) WHERE space_id IS NULL
		 DO UPDATE SET url = EXCLUDED.url, api_key = EXCLUDED.api_key, updated_at = now()
		 RETURNING id, created_at, updated_at`,
		instance.ID, instance.WorkspaceID, instance.URL, instance.APIKey,
	).Scan(&instance.ID, &instance.CreatedAt, &instance.UpdatedAt)
	return err
}

// CreateAutomation saves an automation.
func (s *PostgresStore) CreateAutomation(ctx context.Context, automation *models.Automation) error {
	if automation.ID == "" {
		automation.ID = uuid.New().String()
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO automations (id, workspace_id, name, description, repository_url, definition_path, document)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		automation.ID, automation.WorkspaceID, automation.Name, automation.Description,
		automation.RepositoryURL, automation.DefinitionPath, automation.Document,
	).Scan(&automation.CreatedAt, &automation.UpdatedAt)
	return err
}

// GetAutomation retrieves an automation by its ID.
func (s *PostgresStore) GetAutomation(ctx context.Context, id string) (*models.Automation, error) {
	var automation models.Automation
	err := s.db.QueryRow(ctx,
		`SELECT id, workspace_id, name, description, repository_url, definition_path, document, created_at, updated_at
		 FROM automations WHERE id = $1`, id,
	).Scan(&automation.ID, &automation.WorkspaceID, &automation.Name, &automation.Description,
		&automation.RepositoryURL, &automation.DefinitionPath, &automation.Document,
		&automation.CreatedAt, &automation.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &automation, nil
}

// ListAutomations lists all automations in a workspace, newest first.
func (s *PostgresStore) ListAutomations(ctx context.Context, workspaceID string) ([]*models.Automation, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, workspace_id, name, description, repository_url, definition_path, document, created_at, updated_at
		 FROM automations WHERE workspace_id = $1 ORDER BY created_at DESC`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var automations []*models.Automation
	for rows.Next() {
		var automation models.Automation
		err := rows.Scan(&automation.ID, &automation.WorkspaceID, &automation.Name, &automation.Description,
			&automation.RepositoryURL, &automation.DefinitionPath, &automation.Document,
			&automation.CreatedAt, &automation.UpdatedAt)
		if err != nil {
			return nil, err
		}
		automations = append(automations, &automation)
	}
	return automations, rows.Err()
}

// UpdateAutomationDocument overwrites the stored workflow document.
func (s *PostgresStore) UpdateAutomationDocument(ctx context.Context, id string, doc models.WorkflowDocument) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE automations SET document = $1, updated_at = now() WHERE id = $2`, doc, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertDeployment inserts or updates the ledger row for the deployment's
// (automation, space) pair and returns the stored row.
func (s *PostgresStore) UpsertDeployment(ctx context.Context, d *models.Deployment) (*models.Deployment, error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	var stored models.Deployment
	err := s.db.QueryRow(ctx,
		`INSERT INTO deployments (id, automation_id, space_id, engine_workflow_id, synced_fingerprint, descriptor_path, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (automation_id, space_id)
		 DO UPDATE SET engine_workflow_id = EXCLUDED.engine_workflow_id,
		               synced_fingerprint = EXCLUDED.synced_fingerprint,
		               descriptor_path = EXCLUDED.descriptor_path,
		               is_active = EXCLUDED.is_active,
		               updated_at = now()
		 RETURNING id, automation_id, space_id, engine_workflow_id, synced_fingerprint, descriptor_path, is_active, created_at, updated_at`,
		d.ID, d.AutomationID, d.SpaceID, d.EngineWorkflowID, d.SyncedFingerprint, d.DescriptorPath, d.IsActive,
	).Scan(&stored.ID, &stored.AutomationID, &stored.SpaceID, &stored.EngineWorkflowID,
		&stored.SyncedFingerprint, &stored.DescriptorPath, &stored.IsActive, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetDeployment retrieves a deployment by its ID.
func (s *PostgresStore) GetDeployment(ctx context.Context, id string) (*models.Deployment, error) {
	var d models.Deployment
	err := s.db.QueryRow(ctx,
		`SELECT id, automation_id, space_id, engine_workflow_id, synced_fingerprint, descriptor_path, is_active, created_at, updated_at
		 FROM deployments WHERE id = $1`, id,
	).Scan(&d.ID, &d.AutomationID, &d.SpaceID, &d.EngineWorkflowID,
		&d.SyncedFingerprint, &d.DescriptorPath, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &d, nil
}

// ListDeploymentsForSpace lists the ledger rows for a space.
func (s *PostgresStore) ListDeploymentsForSpace(ctx context.Context, spaceID string) ([]*models.Deployment, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, automation_id, space_id, engine_workflow_id, synced_fingerprint, descriptor_path, is_active, created_at, updated_at
		 FROM deployments WHERE space_id = $1 ORDER BY created_at DESC`, spaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deployments []*models.Deployment
	for rows.Next() {
		var d models.Deployment
		err := rows.Scan(&d.ID, &d.AutomationID, &d.SpaceID, &d.EngineWorkflowID,
			&d.SyncedFingerprint, &d.DescriptorPath, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, err
		}
		deployments = append(deployments, &d)
	}
	return deployments, rows.Err()
}

// SetDeploymentActive flips the is_active flag on a ledger row.
func (s *PostgresStore) SetDeploymentActive(ctx context.Context, id string, active bool) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE deployments SET is_active = $1, updated_at = now() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchDeployment bumps updated_at on a ledger row.
func (s *PostgresStore) TouchDeployment(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE deployments SET updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertCredential stores the vault ciphertext for a principal.
func (s *PostgresStore) UpsertCredential(ctx context.Context, principalID, ciphertext string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO credentials (id, principal_id, ciphertext)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (principal_id)
		 DO UPDATE SET ciphertext = EXCLUDED.ciphertext, updated_at = now()`,
		uuid.New().String(), principalID, ciphertext)
	return err
}

// GetCredential retrieves the stored ciphertext for a principal.
func (s *PostgresStore) GetCredential(ctx context.Context, principalID string) (*models.Credential, error) {
	var c models.Credential
	err := s.db.QueryRow(ctx,
		`SELECT id, principal_id, ciphertext, created_at, updated_at
		 FROM credentials WHERE principal_id = $1`, principalID,
	).Scan(&c.ID, &c.PrincipalID, &c.Ciphertext, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &c, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
