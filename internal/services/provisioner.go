package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"automation-hub/backend/internal/descriptor"
	"automation-hub/backend/internal/logging"
	"automation-hub/backend/internal/repository"
	"automation-hub/backend/internal/vault"
	"automation-hub/backend/pkg/models"
)

// ProvisioningService handles the setup side of the system: workspaces,
// spaces, engine instances, automations and stored credentials. It owns
// every write that involves the vault, so plaintext secrets never cross
// the repository boundary.
type ProvisioningService struct {
	store       repository.Store
	descriptors descriptor.Store
	vault       vault.Vault
	logger      *logging.Logger
}

// NewProvisioningService creates a new ProvisioningService.
func NewProvisioningService(
	store repository.Store,
	descriptors descriptor.Store,
	v vault.Vault,
	logger *logging.Logger,
) *ProvisioningService {
	return &ProvisioningService{
		store:       store,
		descriptors: descriptors,
		vault:       v,
		logger:      logger.WithComponent("provisioner"),
	}
}

func (s *ProvisioningService) CreateWorkspace(ctx context.Context, ws *models.Workspace) error {
	return s.store.CreateWorkspace(ctx, ws)
}

func (s *ProvisioningService) GetWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	return s.store.GetWorkspace(ctx, id)
}

func (s *ProvisioningService) CreateSpace(ctx context.Context, space *models.Space) error {
	return s.store.CreateSpace(ctx, space)
}

func (s *ProvisioningService) ListSpaces(ctx context.Context, workspaceID string) ([]*models.Space, error) {
	return s.store.ListSpaces(ctx, workspaceID)
}

// CreateAutomation validates and stores an automation. When a repository
// link is present and a store token is available, the definition path is
// bootstrapped in the descriptor store; an already-populated path is an
// error so two automations never share a definition.
//
// A bootstrap failure after the record was stored comes back as a
// *PartialError with the stored automation intact.
func (s *ProvisioningService) CreateAutomation(ctx context.Context, automation *models.Automation, storeToken string) error {
	if err := ValidateDocument(automation.Document); err != nil {
		return err
	}

	if automation.HasRepository() && storeToken != "" {
		definitionPath := automation.DefinitionPath + "/definition.json"
		_, err := s.descriptors.GetBlob(ctx, automation.RepositoryURL, definitionPath, storeToken)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrDefinitionExists, definitionPath)
		}
		if !errors.Is(err, descriptor.ErrNotFound) {
			return fmt.Errorf("failed to probe definition path: %w", err)
		}
	}

	if err := s.store.CreateAutomation(ctx, automation); err != nil {
		return fmt.Errorf("failed to store automation: %w", err)
	}

	if automation.HasRepository() && storeToken != "" {
		if err := s.bootstrapDefinition(ctx, automation, storeToken); err != nil {
			return &PartialError{Err: err}
		}
	}

	s.logger.Info("automation created", "automation_id", automation.ID, "name", automation.Name)
	return nil
}

// bootstrapDefinition seeds the automation's directory in the descriptor
// store: the definition document plus an empty deployments index.
func (s *ProvisioningService) bootstrapDefinition(ctx context.Context, automation *models.Automation, token string) error {
	doc := automation.Document
	if doc == nil {
		doc = models.WorkflowDocument{}
	}
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal definition: %w", err)
	}

	if err := s.descriptors.PutBlob(ctx, automation.RepositoryURL,
		automation.DefinitionPath+"/definition.json", content,
		fmt.Sprintf("Add automation %s", automation.Name), token); err != nil {
		return err
	}

	readme := fmt.Sprintf("# %s deployments\n\nOne descriptor per target space, written on every deploy.\n", automation.Name)
	return s.descriptors.PutBlob(ctx, automation.RepositoryURL,
		automation.DefinitionPath+"/deployments/README.md", []byte(readme),
		fmt.Sprintf("Add deployments index for %s", automation.Name), token)
}

func (s *ProvisioningService) GetAutomation(ctx context.Context, id string) (*models.Automation, error) {
	return s.store.GetAutomation(ctx, id)
}

func (s *ProvisioningService) ListAutomations(ctx context.Context, workspaceID string) ([]*models.Automation, error) {
	return s.store.ListAutomations(ctx, workspaceID)
}

// SetMasterInstance creates or replaces the workspace-master engine
// instance. The API key is encrypted before it reaches the store.
func (s *ProvisioningService) SetMasterInstance(ctx context.Context, workspaceID, url, apiKey string) (*models.EngineInstance, error) {
	instance := &models.EngineInstance{WorkspaceID: workspaceID, URL: url}
	if apiKey != "" {
		ciphertext, err := s.vault.Encrypt(apiKey)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt instance key: %w", err)
		}
		instance.APIKey = ciphertext
	}
	if err := s.store.UpsertMasterInstance(ctx, instance); err != nil {
		return nil, err
	}
	s.logger.Info("master instance set", "workspace_id", workspaceID, "instance_id", instance.ID)
	return instance, nil
}

// CreateSpaceInstance binds a dedicated engine instance to a space.
func (s *ProvisioningService) CreateSpaceInstance(ctx context.Context, workspaceID, spaceID, url, apiKey string) (*models.EngineInstance, error) {
	if _, err := s.store.GetSpace(ctx, spaceID); err != nil {
		return nil, fmt.Errorf("failed to load space: %w", err)
	}
	instance := &models.EngineInstance{WorkspaceID: workspaceID, SpaceID: &spaceID, URL: url}
	if apiKey != "" {
		ciphertext, err := s.vault.Encrypt(apiKey)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt instance key: %w", err)
		}
		instance.APIKey = ciphertext
	}
	if err := s.store.CreateInstance(ctx, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// StoreWorkspaceToken saves a descriptor-store token for the workspace so
// deploys can run without the caller passing one each time.
func (s *ProvisioningService) StoreWorkspaceToken(ctx context.Context, workspaceID, token string) error {
	ciphertext, err := s.vault.Encrypt(token)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}
	return s.store.UpsertCredential(ctx, workspaceID, ciphertext)
}

func (s *ProvisioningService) ListDeploymentsForSpace(ctx context.Context, spaceID string) ([]*models.Deployment, error) {
	return s.store.ListDeploymentsForSpace(ctx, spaceID)
}
