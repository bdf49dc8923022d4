package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"automation-hub/backend/internal/descriptor"
	"automation-hub/backend/internal/engine"
	"automation-hub/backend/internal/logging"
	"automation-hub/backend/internal/repository"
	"automation-hub/backend/internal/vault"
	"automation-hub/backend/pkg/models"
)

// ActivationAction is the direction of a ToggleActivation call.
type ActivationAction string

const (
	ActionActivate   ActivationAction = "activate"
	ActionDeactivate ActivationAction = "deactivate"
)

// DeployResult reports a successful (or partially successful) deploy.
type DeployResult struct {
	Deployment       *models.Deployment `json:"deployment"`
	WorkflowID       string             `json:"workflow_id"`
	DeployedAt       time.Time          `json:"deployed_at"`
	DescriptorSynced bool               `json:"descriptor_synced"`
}

// ResyncResult reports a completed resync.
type ResyncResult struct {
	UpdatedAt time.Time `json:"updated_at"`
}

// ToggleResult reports the activation state after a toggle.
type ToggleResult struct {
	IsActive bool `json:"is_active"`
}

// UpdateResult reports a completed live-workflow update.
type UpdateResult struct {
	UpdatedAt time.Time `json:"updated_at"`
}

// deployDescriptor is the audit artifact written to the descriptor store
// for a deployment. It is never read back to drive engine calls.
type deployDescriptor struct {
	SpaceID           string           `json:"spaceId"`
	SpaceName         string           `json:"spaceName"`
	SpaceKind         models.SpaceKind `json:"spaceKind"`
	WorkflowID        string           `json:"workflowId"`
	SourceFingerprint string           `json:"sourceFingerprint,omitempty"`
	DeployedAt        string           `json:"deployedAt"`
	AutomationName    string           `json:"automationName"`
	Status            string           `json:"status"`
}

// DeploymentService reconciles automations onto spaces. Each operation is
// a strictly sequential pipeline of blocking calls; all shared state lives
// in the store, so operations on different (automation, space) pairs can
// run concurrently.
type DeploymentService struct {
	store       repository.Store
	engine      engine.Client
	descriptors descriptor.Store
	resolver    *InstanceResolver
	vault       vault.Vault
	logger      *logging.Logger
	deploys     metric.Int64Counter
}

// NewDeploymentService creates a new DeploymentService.
func NewDeploymentService(
	store repository.Store,
	engineClient engine.Client,
	descriptors descriptor.Store,
	v vault.Vault,
	logger *logging.Logger,
) *DeploymentService {
	meter := otel.Meter("automation-hub/backend/internal/services")
	deploys, _ := meter.Int64Counter("deployments_total",
		metric.WithDescription("Deploy operations by outcome"))
	return &DeploymentService{
		store:       store,
		engine:      engineClient,
		descriptors: descriptors,
		resolver:    NewInstanceResolver(store),
		vault:       v,
		logger:      logger.WithComponent("deployer"),
		deploys:     deploys,
	}
}

// Deploy pushes an automation to a space as a fresh engine workflow and
// records the result in the ledger. Re-deploying the same pair updates the
// existing ledger row in place.
//
// A descriptor-store failure after the engine call succeeded does not
// roll anything back: the ledger row is still written and the error comes
// back as a *PartialError.
func (s *DeploymentService) Deploy(ctx context.Context, automationID, spaceID, storeToken string) (*DeployResult, error) {
	automation, err := s.store.GetAutomation(ctx, automationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load automation: %w", err)
	}
	space, err := s.store.GetSpace(ctx, spaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load space: %w", err)
	}
	if err := ValidateDocument(automation.Document); err != nil {
		return nil, err
	}

	instance, err := s.resolver.Resolve(ctx, space)
	if err != nil {
		return nil, err
	}
	creds, err := s.instanceCredentials(instance)
	if err != nil {
		return nil, err
	}

	// Observed contract: Deploy always issues a create, even when the pair
	// already has a live workflow id. UpdateLiveWorkflow is the only
	// in-place-update path.
	workflowID, err := s.engine.CreateWorkflow(ctx, creds, Project(automation))
	if err != nil {
		s.deploys.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "engine_error")))
		return nil, err
	}

	var descriptorErr error
	var fingerprint, descriptorPath string
	if automation.HasRepository() {
		fingerprint, descriptorPath, descriptorErr = s.writeDeployDescriptor(ctx, automation, space, workflowID, storeToken)
	}

	row, err := s.store.UpsertDeployment(ctx, &models.Deployment{
		AutomationID:      automation.ID,
		SpaceID:           space.ID,
		EngineWorkflowID:  workflowID,
		SyncedFingerprint: fingerprint,
		DescriptorPath:    descriptorPath,
		IsActive:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record deployment: %w", err)
	}

	result := &DeployResult{
		Deployment:       row,
		WorkflowID:       workflowID,
		DeployedAt:       row.UpdatedAt,
		DescriptorSynced: automation.HasRepository() && descriptorErr == nil,
	}

	if descriptorErr != nil {
		s.deploys.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "partial")))
		if errors.Is(descriptorErr, ErrNoStoreToken) {
			s.logger.Warn("deploy descriptor skipped, no store token",
				"automation_id", automation.ID, "space_id", space.ID, "workspace_id", automation.WorkspaceID)
		} else {
			s.logger.Warn("deploy descriptor not synchronized",
				"automation_id", automation.ID, "space_id", space.ID, "error", descriptorErr.Error())
		}
		return result, &PartialError{Err: descriptorErr}
	}

	s.deploys.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	s.logger.Info("automation deployed",
		"automation_id", automation.ID, "space_id", space.ID, "workflow_id", workflowID)
	return result, nil
}

// writeDeployDescriptor records the deploy in the descriptor store using
// the compare-and-swap protocol. Returns the source-tree fingerprint and
// the descriptor path that made it into the write, so the ledger can carry
// them even when the write itself failed.
func (s *DeploymentService) writeDeployDescriptor(
	ctx context.Context,
	automation *models.Automation,
	space *models.Space,
	workflowID, suppliedToken string,
) (fingerprint, path string, err error) {
	path = automation.DefinitionPath + "/deployments/" + slug(space.Name) + ".json"

	token, err := s.storeToken(ctx, automation.WorkspaceID, suppliedToken)
	if err != nil {
		return "", path, err
	}

	fingerprint, err = s.descriptors.GetBranchHead(ctx, automation.RepositoryURL, "main", token)
	if err != nil {
		return "", path, fmt.Errorf("failed to resolve source fingerprint: %w", err)
	}

	content, err := json.MarshalIndent(deployDescriptor{
		SpaceID:           space.ID,
		SpaceName:         space.Name,
		SpaceKind:         space.Kind,
		WorkflowID:        workflowID,
		SourceFingerprint: fingerprint,
		DeployedAt:        time.Now().UTC().Format(time.RFC3339),
		AutomationName:    automation.Name,
		Status:            "active",
	}, "", "  ")
	if err != nil {
		return fingerprint, path, fmt.Errorf("failed to marshal descriptor: %w", err)
	}

	message := fmt.Sprintf("Deploy %s to %s", automation.Name, space.Name)
	if err := s.descriptors.PutBlob(ctx, automation.RepositoryURL, path, content, message, token); err != nil {
		return fingerprint, path, err
	}
	return fingerprint, path, nil
}

// Resync pulls the canonical workflow from the workspace-master instance
// and overwrites the automation's stored document with it. The ledger is
// never touched. The master is resolved directly, never through the
// space fallback chain: resync is about the source of truth, not any one
// deployment target.
func (s *DeploymentService) Resync(ctx context.Context, automationID, storeToken string) (*ResyncResult, error) {
	automation, err := s.store.GetAutomation(ctx, automationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load automation: %w", err)
	}

	master, err := s.store.GetMasterInstance(ctx, automation.WorkspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no workspace master instance", ErrNoInstanceConfigured)
		}
		return nil, fmt.Errorf("failed to look up master instance: %w", err)
	}

	sourceID, ok := automation.Document.SourceWorkflowID()
	if !ok {
		return nil, ErrSourceIDMissing
	}

	creds, err := s.instanceCredentials(master)
	if err != nil {
		return nil, err
	}
	fetched, err := s.engine.GetWorkflow(ctx, creds, sourceID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateAutomationDocument(ctx, automation.ID, fetched); err != nil {
		return nil, fmt.Errorf("failed to store synced document: %w", err)
	}
	updatedAt := time.Now().UTC()

	// Mirror to the descriptor store when a repository is linked and a
	// token is available; missing tokens degrade to a local-only sync.
	if automation.HasRepository() {
		if token, tokenErr := s.storeToken(ctx, automation.WorkspaceID, storeToken); tokenErr == nil {
			content, err := json.MarshalIndent(fetched, "", "  ")
			if err != nil {
				return &ResyncResult{UpdatedAt: updatedAt}, &PartialError{Err: err}
			}
			path := automation.DefinitionPath + "/definition.json"
			if err := s.descriptors.PutBlob(ctx, automation.RepositoryURL, path, content,
				"Sync update from master engine instance", token); err != nil {
				return &ResyncResult{UpdatedAt: updatedAt}, &PartialError{Err: err}
			}
		}
	}

	s.logger.Info("automation resynced", "automation_id", automation.ID, "workflow_id", sourceID)
	return &ResyncResult{UpdatedAt: updatedAt}, nil
}

// ToggleActivation activates or deactivates a deployment's workflow on its
// engine. The ledger flag follows the engine call and only on success.
func (s *DeploymentService) ToggleActivation(ctx context.Context, deploymentID string, action ActivationAction) (*ToggleResult, error) {
	if action != ActionActivate && action != ActionDeactivate {
		return nil, ErrInvalidAction
	}

	deployment, err := s.store.GetDeployment(ctx, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deployment: %w", err)
	}
	if deployment.EngineWorkflowID == "" {
		return nil, fmt.Errorf("deployment %s has no engine workflow id", deployment.ID)
	}

	instance, creds, err := s.resolveForDeployment(ctx, deployment)
	if err != nil {
		return nil, err
	}

	active := action == ActionActivate
	if err := s.engine.SetActive(ctx, creds, deployment.EngineWorkflowID, active); err != nil {
		return nil, err
	}

	if err := s.store.SetDeploymentActive(ctx, deployment.ID, active); err != nil {
		return nil, fmt.Errorf("failed to record activation state: %w", err)
	}

	s.logger.Info("deployment activation toggled",
		"deployment_id", deployment.ID, "instance_id", instance.ID, "active", active)
	return &ToggleResult{IsActive: active}, nil
}

// UpdateLiveWorkflow re-projects the automation's current document and
// updates the deployed workflow in place. The activation flag is left
// alone; only the ledger row's update timestamp moves.
func (s *DeploymentService) UpdateLiveWorkflow(ctx context.Context, deploymentID string) (*UpdateResult, error) {
	deployment, err := s.store.GetDeployment(ctx, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deployment: %w", err)
	}
	if deployment.EngineWorkflowID == "" {
		return nil, fmt.Errorf("deployment %s has no engine workflow id", deployment.ID)
	}

	automation, err := s.store.GetAutomation(ctx, deployment.AutomationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load automation: %w", err)
	}
	if err := ValidateDocument(automation.Document); err != nil {
		return nil, err
	}

	_, creds, err := s.resolveForDeployment(ctx, deployment)
	if err != nil {
		return nil, err
	}

	if err := s.engine.UpdateWorkflow(ctx, creds, deployment.EngineWorkflowID, Project(automation)); err != nil {
		return nil, err
	}

	if err := s.store.TouchDeployment(ctx, deployment.ID); err != nil {
		return nil, fmt.Errorf("failed to touch deployment: %w", err)
	}
	row, err := s.store.GetDeployment(ctx, deployment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload deployment: %w", err)
	}

	s.logger.Info("live workflow updated",
		"deployment_id", deployment.ID, "workflow_id", deployment.EngineWorkflowID)
	return &UpdateResult{UpdatedAt: row.UpdatedAt}, nil
}

// ListEngineWorkflows lists the workflows on the workspace-master
// instance, normalized for display.
func (s *DeploymentService) ListEngineWorkflows(ctx context.Context, workspaceID string) ([]engine.WorkflowSummary, error) {
	master, err := s.store.GetMasterInstance(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no workspace master instance", ErrNoInstanceConfigured)
		}
		return nil, fmt.Errorf("failed to look up master instance: %w", err)
	}
	creds, err := s.instanceCredentials(master)
	if err != nil {
		return nil, err
	}
	return s.engine.ListWorkflows(ctx, creds)
}

// GetEngineWorkflow fetches one workflow's exported document from the
// workspace-master instance.
func (s *DeploymentService) GetEngineWorkflow(ctx context.Context, workspaceID, workflowID string) (models.WorkflowDocument, error) {
	master, err := s.store.GetMasterInstance(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no workspace master instance", ErrNoInstanceConfigured)
		}
		return nil, fmt.Errorf("failed to look up master instance: %w", err)
	}
	creds, err := s.instanceCredentials(master)
	if err != nil {
		return nil, err
	}
	return s.engine.GetWorkflow(ctx, creds, workflowID)
}

func (s *DeploymentService) resolveForDeployment(ctx context.Context, deployment *models.Deployment) (*models.EngineInstance, engine.Credentials, error) {
	space, err := s.store.GetSpace(ctx, deployment.SpaceID)
	if err != nil {
		return nil, engine.Credentials{}, fmt.Errorf("failed to load space: %w", err)
	}
	instance, err := s.resolver.Resolve(ctx, space)
	if err != nil {
		return nil, engine.Credentials{}, err
	}
	creds, err := s.instanceCredentials(instance)
	if err != nil {
		return nil, engine.Credentials{}, err
	}
	return instance, creds, nil
}

// instanceCredentials decrypts the instance key just before use. The
// plaintext never goes through the store or the logs.
func (s *DeploymentService) instanceCredentials(instance *models.EngineInstance) (engine.Credentials, error) {
	if instance.APIKey == "" {
		return engine.Credentials{BaseURL: instance.URL}, nil
	}
	key, err := s.vault.Decrypt(instance.APIKey)
	if err != nil {
		return engine.Credentials{}, fmt.Errorf("failed to decrypt instance key: %w", err)
	}
	return engine.Credentials{BaseURL: instance.URL, APIKey: key}, nil
}

// storeToken returns the caller-supplied descriptor-store token or falls
// back to the workspace's stored credential.
func (s *DeploymentService) storeToken(ctx context.Context, workspaceID, supplied string) (string, error) {
	if supplied != "" {
		return supplied, nil
	}
	cred, err := s.store.GetCredential(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w for workspace %s: supply store_token or save a workspace credential", ErrNoStoreToken, workspaceID)
		}
		return "", fmt.Errorf("failed to load store credential: %w", err)
	}
	return s.vault.Decrypt(cred.Ciphertext)
}

// slug converts a space name to its descriptor file name form.
func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
