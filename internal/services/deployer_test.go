package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"automation-hub/backend/internal/descriptor"
	"automation-hub/backend/internal/engine"
	"automation-hub/backend/internal/logging"
	"automation-hub/backend/internal/repository"
	"automation-hub/backend/pkg/models"
)

// fakeStore is an in-memory repository.Store for orchestration tests.
type fakeStore struct {
	workspaces  map[string]*models.Workspace
	spaces      map[string]*models.Space
	instances   []*models.EngineInstance
	automations map[string]*models.Automation
	deployments map[string]*models.Deployment
	credentials map[string]*models.Credential

	documentUpdates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		workspaces:  map[string]*models.Workspace{},
		spaces:      map[string]*models.Space{},
		automations: map[string]*models.Automation{},
		deployments: map[string]*models.Deployment{},
		credentials: map[string]*models.Credential{},
	}
}

func (f *fakeStore) CreateWorkspace(_ context.Context, ws *models.Workspace) error {
	f.workspaces[ws.ID] = ws
	return nil
}

func (f *fakeStore) GetWorkspace(_ context.Context, id string) (*models.Workspace, error) {
	if ws, ok := f.workspaces[id]; ok {
		return ws, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) CreateSpace(_ context.Context, space *models.Space) error {
	f.spaces[space.ID] = space
	return nil
}

func (f *fakeStore) GetSpace(_ context.Context, id string) (*models.Space, error) {
	if space, ok := f.spaces[id]; ok {
		return space, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) ListSpaces(_ context.Context, workspaceID string) ([]*models.Space, error) {
	var out []*models.Space
	for _, space := range f.spaces {
		if space.WorkspaceID == workspaceID {
			out = append(out, space)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateInstance(_ context.Context, instance *models.EngineInstance) error {
	f.instances = append(f.instances, instance)
	return nil
}

func (f *fakeStore) GetInstanceForSpace(_ context.Context, spaceID string) (*models.EngineInstance, error) {
	for _, instance := range f.instances {
		if instance.SpaceID != nil && *instance.SpaceID == spaceID {
			return instance, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) GetMasterInstance(_ context.Context, workspaceID string) (*models.EngineInstance, error) {
	for _, instance := range f.instances {
		if instance.WorkspaceID == workspaceID && instance.SpaceID == nil {
			return instance, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) UpsertMasterInstance(ctx context.Context, instance *models.EngineInstance) error {
	for i, existing := range f.instances {
		if existing.WorkspaceID == instance.WorkspaceID && existing.SpaceID == nil {
			instance.ID = existing.ID
			f.instances[i] = instance
			return nil
		}
	}
	f.instances = append(f.instances, instance)
	return nil
}

func (f *fakeStore) CreateAutomation(_ context.Context, automation *models.Automation) error {
	f.automations[automation.ID] = automation
	return nil
}

func (f *fakeStore) GetAutomation(_ context.Context, id string) (*models.Automation, error) {
	if automation, ok := f.automations[id]; ok {
		return automation, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) ListAutomations(_ context.Context, workspaceID string) ([]*models.Automation, error) {
	var out []*models.Automation
	for _, automation := range f.automations {
		if automation.WorkspaceID == workspaceID {
			out = append(out, automation)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateAutomationDocument(_ context.Context, id string, doc models.WorkflowDocument) error {
	automation, ok := f.automations[id]
	if !ok {
		return repository.ErrNotFound
	}
	automation.Document = doc
	f.documentUpdates++
	return nil
}

func (f *fakeStore) UpsertDeployment(_ context.Context, d *models.Deployment) (*models.Deployment, error) {
	for _, existing := range f.deployments {
		if existing.AutomationID == d.AutomationID && existing.SpaceID == d.SpaceID {
			existing.EngineWorkflowID = d.EngineWorkflowID
			existing.SyncedFingerprint = d.SyncedFingerprint
			existing.DescriptorPath = d.DescriptorPath
			existing.IsActive = d.IsActive
			existing.UpdatedAt = time.Now().UTC()
			return existing, nil
		}
	}
	stored := *d
	stored.ID = fmt.Sprintf("dep-%d", len(f.deployments)+1)
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	f.deployments[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeStore) GetDeployment(_ context.Context, id string) (*models.Deployment, error) {
	if d, ok := f.deployments[id]; ok {
		return d, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) ListDeploymentsForSpace(_ context.Context, spaceID string) ([]*models.Deployment, error) {
	var out []*models.Deployment
	for _, d := range f.deployments {
		if d.SpaceID == spaceID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) SetDeploymentActive(_ context.Context, id string, active bool) error {
	d, ok := f.deployments[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.IsActive = active
	d.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeStore) TouchDeployment(_ context.Context, id string) error {
	d, ok := f.deployments[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeStore) UpsertCredential(_ context.Context, principalID, ciphertext string) error {
	f.credentials[principalID] = &models.Credential{
		ID: "cred-" + principalID, PrincipalID: principalID, Ciphertext: ciphertext,
	}
	return nil
}

func (f *fakeStore) GetCredential(_ context.Context, principalID string) (*models.Credential, error) {
	if cred, ok := f.credentials[principalID]; ok {
		return cred, nil
	}
	return nil, repository.ErrNotFound
}

// fakeEngine records every call and its credentials.
type fakeEngine struct {
	creates      []engine.Payload
	createCreds  []engine.Credentials
	updates      map[string]engine.Payload
	activations  map[string]bool
	nextID       int
	createErr    error
	setActiveErr error
	documents    map[string]models.WorkflowDocument
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		updates:     map[string]engine.Payload{},
		activations: map[string]bool{},
		documents:   map[string]models.WorkflowDocument{},
	}
}

func (f *fakeEngine) CreateWorkflow(_ context.Context, creds engine.Credentials, payload engine.Payload) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.creates = append(f.creates, payload)
	f.createCreds = append(f.createCreds, creds)
	f.nextID++
	return fmt.Sprintf("wf-%d", f.nextID), nil
}

func (f *fakeEngine) UpdateWorkflow(_ context.Context, _ engine.Credentials, workflowID string, payload engine.Payload) error {
	f.updates[workflowID] = payload
	return nil
}

func (f *fakeEngine) SetActive(_ context.Context, _ engine.Credentials, workflowID string, active bool) error {
	if f.setActiveErr != nil {
		return f.setActiveErr
	}
	f.activations[workflowID] = active
	return nil
}

func (f *fakeEngine) GetWorkflow(_ context.Context, _ engine.Credentials, workflowID string) (models.WorkflowDocument, error) {
	doc, ok := f.documents[workflowID]
	if !ok {
		return nil, &engine.CallError{StatusCode: 404, Body: "not found"}
	}
	return doc, nil
}

func (f *fakeEngine) ListWorkflows(_ context.Context, _ engine.Credentials) ([]engine.WorkflowSummary, error) {
	return []engine.WorkflowSummary{{ID: "wf-1", Name: "Lead Sync"}}, nil
}

// fakeDescriptorStore records writes and can fail them.
type fakeDescriptorStore struct {
	blobs     map[string][]byte
	tokens    []string
	headCalls int
	putErr    error
}

func newFakeDescriptorStore() *fakeDescriptorStore {
	return &fakeDescriptorStore{blobs: map[string][]byte{}}
}

func (f *fakeDescriptorStore) GetBlob(_ context.Context, _, path, _ string) (*descriptor.Blob, error) {
	content, ok := f.blobs[path]
	if !ok {
		return nil, descriptor.ErrNotFound
	}
	return &descriptor.Blob{Content: content, Fingerprint: "sha-1"}, nil
}

func (f *fakeDescriptorStore) PutBlob(_ context.Context, _, path string, content []byte, _, token string) error {
	f.tokens = append(f.tokens, token)
	if f.putErr != nil {
		return f.putErr
	}
	f.blobs[path] = content
	return nil
}

func (f *fakeDescriptorStore) GetBranchHead(_ context.Context, _, _, _ string) (string, error) {
	f.headCalls++
	return "fp-abc123", nil
}

type fakeVault struct{}

func (fakeVault) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (fakeVault) Decrypt(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, "enc:") {
		return "", errors.New("not a ciphertext")
	}
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

type deployerFixture struct {
	store       *fakeStore
	engine      *fakeEngine
	descriptors *fakeDescriptorStore
	service     *DeploymentService
}

func newDeployerFixture(t *testing.T) *deployerFixture {
	t.Helper()
	store := newFakeStore()
	eng := newFakeEngine()
	desc := newFakeDescriptorStore()
	service := NewDeploymentService(store, eng, desc, fakeVault{}, logging.NewLogger("error"))

	ctx := context.Background()
	require.NoError(t, store.CreateWorkspace(ctx, &models.Workspace{ID: "ws-1", Name: "Acme Agency"}))
	require.NoError(t, store.CreateSpace(ctx, &models.Space{
		ID: "space-a", WorkspaceID: "ws-1", Name: "Client A", Kind: models.SpaceKindClient,
	}))
	require.NoError(t, store.CreateSpace(ctx, &models.Space{
		ID: "space-b", WorkspaceID: "ws-1", Name: "Staging", Kind: models.SpaceKindStaging,
	}))
	require.NoError(t, store.CreateAutomation(ctx, &models.Automation{
		ID: "auto-1", WorkspaceID: "ws-1", Name: "Lead Sync",
		RepositoryURL: "https://github.com/acme/flows", DefinitionPath: "flows/lead-sync",
		Document: models.WorkflowDocument{
			"id":          "wf-src-1",
			"nodes":       []any{map[string]any{"name": "Webhook"}},
			"connections": map[string]any{"Webhook": map[string]any{}},
			"settings":    map[string]any{"timezone": "UTC"},
		},
	}))
	require.NoError(t, store.CreateInstance(ctx, &models.EngineInstance{
		ID: "inst-master", WorkspaceID: "ws-1", URL: "https://master.engine.test", APIKey: "enc:master-key",
	}))
	return &deployerFixture{store: store, engine: eng, descriptors: desc, service: service}
}

func TestDeployCreatesWorkflowAndLedgerRow(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()

	result, err := fx.service.Deploy(ctx, "auto-1", "space-a", "gh-token")
	require.NoError(t, err)
	assert.Equal(t, "wf-1", result.WorkflowID)
	assert.True(t, result.DescriptorSynced)

	require.Len(t, fx.engine.creates, 1)
	payload := fx.engine.creates[0]
	assert.Equal(t, "Lead Sync", payload.Name)
	assert.Len(t, payload.Nodes, 1)

	row := result.Deployment
	assert.Equal(t, "wf-1", row.EngineWorkflowID)
	assert.Equal(t, "fp-abc123", row.SyncedFingerprint)
	assert.Equal(t, "flows/lead-sync/deployments/client-a.json", row.DescriptorPath)
	assert.True(t, row.IsActive)

	written, ok := fx.descriptors.blobs["flows/lead-sync/deployments/client-a.json"]
	require.True(t, ok)
	assert.Contains(t, string(written), `"spaceName": "Client A"`)
	assert.Contains(t, string(written), `"workflowId": "wf-1"`)
	assert.Contains(t, string(written), `"sourceFingerprint": "fp-abc123"`)
}

func TestDeployIsIdempotentPerPair(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()

	first, err := fx.service.Deploy(ctx, "auto-1", "space-a", "gh-token")
	require.NoError(t, err)
	second, err := fx.service.Deploy(ctx, "auto-1", "space-a", "gh-token")
	require.NoError(t, err)

	// Each deploy issues a fresh create, but the ledger keeps one row per
	// (automation, space) and the latest workflow id wins.
	assert.Len(t, fx.engine.creates, 2)
	assert.Equal(t, first.Deployment.ID, second.Deployment.ID)
	assert.Len(t, fx.store.deployments, 1)
	assert.Equal(t, "wf-2", second.Deployment.EngineWorkflowID)
}

func TestDeployWithoutRepositorySkipsDescriptor(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.store.CreateAutomation(ctx, &models.Automation{
		ID: "auto-bare", WorkspaceID: "ws-1", Name: "Bare",
		Document: models.WorkflowDocument{"nodes": []any{}},
	}))

	result, err := fx.service.Deploy(ctx, "auto-bare", "space-a", "")
	require.NoError(t, err)

	assert.False(t, result.DescriptorSynced)
	assert.Empty(t, fx.descriptors.tokens)
	assert.Zero(t, fx.descriptors.headCalls)
	assert.Empty(t, result.Deployment.SyncedFingerprint)
	assert.Empty(t, result.Deployment.DescriptorPath)
}

func TestDeployPartialSuccessOnDescriptorConflict(t *testing.T) {
	fx := newDeployerFixture(t)
	fx.descriptors.putErr = fmt.Errorf("audit.json: %w", descriptor.ErrConcurrentModification)
	ctx := context.Background()

	result, err := fx.service.Deploy(ctx, "auto-1", "space-a", "gh-token")

	var partial *PartialError
	require.ErrorAs(t, err, &partial)
	assert.ErrorIs(t, err, descriptor.ErrConcurrentModification)

	// The engine call happened and the ledger row was still written.
	require.NotNil(t, result)
	assert.False(t, result.DescriptorSynced)
	assert.Len(t, fx.store.deployments, 1)
	assert.Equal(t, "wf-1", result.Deployment.EngineWorkflowID)
	assert.Equal(t, "flows/lead-sync/deployments/client-a.json", result.Deployment.DescriptorPath)
}

func TestDeployEngineFailureWritesNothing(t *testing.T) {
	fx := newDeployerFixture(t)
	fx.engine.createErr = &engine.CallError{StatusCode: 502, Body: "bad gateway"}
	ctx := context.Background()

	result, err := fx.service.Deploy(ctx, "auto-1", "space-a", "gh-token")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, fx.store.deployments)
	assert.Empty(t, fx.descriptors.blobs)
}

func TestDeployPrefersSpaceScopedInstance(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()
	spaceA := "space-a"
	require.NoError(t, fx.store.CreateInstance(ctx, &models.EngineInstance{
		ID: "inst-a", WorkspaceID: "ws-1", SpaceID: &spaceA,
		URL: "https://client-a.engine.test", APIKey: "enc:client-a-key",
	}))

	_, err := fx.service.Deploy(ctx, "auto-1", "space-a", "gh-token")
	require.NoError(t, err)
	require.Len(t, fx.engine.createCreds, 1)
	assert.Equal(t, "https://client-a.engine.test", fx.engine.createCreds[0].BaseURL)
	assert.Equal(t, "client-a-key", fx.engine.createCreds[0].APIKey)

	// A space without its own instance falls back to the master.
	_, err = fx.service.Deploy(ctx, "auto-1", "space-b", "gh-token")
	require.NoError(t, err)
	assert.Equal(t, "https://master.engine.test", fx.engine.createCreds[1].BaseURL)
	assert.Equal(t, "master-key", fx.engine.createCreds[1].APIKey)
}

func TestDeployFailsWithoutAnyInstance(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.store.CreateWorkspace(ctx, &models.Workspace{ID: "ws-2", Name: "Empty"}))
	require.NoError(t, fx.store.CreateSpace(ctx, &models.Space{ID: "space-x", WorkspaceID: "ws-2", Name: "Orphan"}))
	require.NoError(t, fx.store.CreateAutomation(ctx, &models.Automation{ID: "auto-x", WorkspaceID: "ws-2", Name: "X"}))

	_, err := fx.service.Deploy(ctx, "auto-x", "space-x", "")
	assert.ErrorIs(t, err, ErrNoInstanceConfigured)
	assert.Empty(t, fx.engine.creates)
}

func TestDeployRejectsMalformedDocument(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.store.CreateAutomation(ctx, &models.Automation{
		ID: "auto-bad", WorkspaceID: "ws-1", Name: "Bad",
		Document: models.WorkflowDocument{"nodes": "not a list"},
	}))

	_, err := fx.service.Deploy(ctx, "auto-bad", "space-a", "")
	assert.ErrorIs(t, err, ErrMalformedDocument)
	assert.Empty(t, fx.engine.creates)
}

func TestDeployFallsBackToStoredCredential(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.store.UpsertCredential(ctx, "ws-1", "enc:stored-token"))

	_, err := fx.service.Deploy(ctx, "auto-1", "space-a", "")
	require.NoError(t, err)
	require.NotEmpty(t, fx.descriptors.tokens)
	assert.Equal(t, "stored-token", fx.descriptors.tokens[0])
}

func TestDeployWithoutAnyTokenIsPartialWithDistinctCause(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()

	result, err := fx.service.Deploy(ctx, "auto-1", "space-a", "")

	var partial *PartialError
	require.ErrorAs(t, err, &partial)
	assert.ErrorIs(t, err, ErrNoStoreToken)

	// The workflow is live and the ledger row recorded; only the
	// descriptor write was skipped.
	require.NotNil(t, result)
	assert.False(t, result.DescriptorSynced)
	assert.Len(t, fx.engine.creates, 1)
	assert.Len(t, fx.store.deployments, 1)
	assert.Empty(t, fx.descriptors.blobs)
}

func TestToggleActivation(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()
	result, err := fx.service.Deploy(ctx, "auto-1", "space-a", "gh-token")
	require.NoError(t, err)
	id := result.Deployment.ID

	toggled, err := fx.service.ToggleActivation(ctx, id, ActionDeactivate)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
	assert.False(t, fx.store.deployments[id].IsActive)
	assert.False(t, fx.engine.activations["wf-1"])

	toggled, err = fx.service.ToggleActivation(ctx, id, ActionActivate)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
	assert.True(t, fx.engine.activations["wf-1"])
}

func TestToggleActivationEngineFailureLeavesLedgerAlone(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()
	result, err := fx.service.Deploy(ctx, "auto-1", "space-a", "gh-token")
	require.NoError(t, err)
	id := result.Deployment.ID

	fx.engine.setActiveErr = &engine.CallError{StatusCode: 500, Body: "boom"}
	_, err = fx.service.ToggleActivation(ctx, id, ActionDeactivate)
	require.Error(t, err)

	// The flag still reflects the last successful engine call.
	assert.True(t, fx.store.deployments[id].IsActive)
}

func TestToggleActivationRejectsUnknownAction(t *testing.T) {
	fx := newDeployerFixture(t)
	_, err := fx.service.ToggleActivation(context.Background(), "dep-1", ActivationAction("pause"))
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestResyncOverwritesDocumentFromMaster(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()
	fx.engine.documents["wf-src-1"] = models.WorkflowDocument{
		"id":    "wf-src-1",
		"nodes": []any{map[string]any{"name": "Webhook"}, map[string]any{"name": "Slack"}},
	}

	_, err := fx.service.Resync(ctx, "auto-1", "gh-token")
	require.NoError(t, err)

	automation := fx.store.automations["auto-1"]
	assert.Len(t, automation.Document.Nodes(), 2)
	assert.Equal(t, 1, fx.store.documentUpdates)

	// The fetched document is also mirrored next to the definition.
	_, ok := fx.descriptors.blobs["flows/lead-sync/definition.json"]
	assert.True(t, ok)
}

func TestResyncAcceptsNumericSourceID(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.store.CreateAutomation(ctx, &models.Automation{
		ID: "auto-num", WorkspaceID: "ws-1", Name: "Numeric Export",
		Document: models.WorkflowDocument{"id": float64(17), "nodes": []any{}},
	}))
	fx.engine.documents["17"] = models.WorkflowDocument{
		"id":    float64(17),
		"nodes": []any{map[string]any{"name": "Webhook"}},
	}

	_, err := fx.service.Resync(ctx, "auto-num", "")
	require.NoError(t, err)
	assert.Len(t, fx.store.automations["auto-num"].Document.Nodes(), 1)
}

func TestResyncWithoutSourceIDFailsCleanly(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.store.CreateAutomation(ctx, &models.Automation{
		ID: "auto-manual", WorkspaceID: "ws-1", Name: "Manual",
		Document: models.WorkflowDocument{"nodes": []any{}},
	}))

	_, err := fx.service.Resync(ctx, "auto-manual", "")
	assert.ErrorIs(t, err, ErrSourceIDMissing)
	assert.Zero(t, fx.store.documentUpdates)
}

func TestResyncWithoutTokenSkipsMirror(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()
	fx.engine.documents["wf-src-1"] = models.WorkflowDocument{"id": "wf-src-1", "nodes": []any{}}

	_, err := fx.service.Resync(ctx, "auto-1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, fx.store.documentUpdates)
	assert.Empty(t, fx.descriptors.blobs)
}

func TestUpdateLiveWorkflow(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()
	result, err := fx.service.Deploy(ctx, "auto-1", "space-a", "gh-token")
	require.NoError(t, err)

	fx.store.automations["auto-1"].Document["nodes"] = []any{
		map[string]any{"name": "Webhook"}, map[string]any{"name": "CRM"},
	}

	updated, err := fx.service.UpdateLiveWorkflow(ctx, result.Deployment.ID)
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.IsZero())

	payload, ok := fx.engine.updates["wf-1"]
	require.True(t, ok)
	assert.Len(t, payload.Nodes, 2)
}

func TestListEngineWorkflowsRequiresMaster(t *testing.T) {
	fx := newDeployerFixture(t)
	ctx := context.Background()

	summaries, err := fx.service.ListEngineWorkflows(ctx, "ws-1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Lead Sync", summaries[0].Name)

	require.NoError(t, fx.store.CreateWorkspace(ctx, &models.Workspace{ID: "ws-2", Name: "Empty"}))
	_, err = fx.service.ListEngineWorkflows(ctx, "ws-2")
	assert.ErrorIs(t, err, ErrNoInstanceConfigured)
}
