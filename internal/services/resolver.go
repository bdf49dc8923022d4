package services

import (
	"context"
	"errors"
	"fmt"

	"automation-hub/backend/internal/repository"
	"automation-hub/backend/pkg/models"
)

// lookup is one tier of the instance fallback chain.
type lookup struct {
	name string
	find func(ctx context.Context, space *models.Space) (*models.EngineInstance, error)
}

// InstanceResolver picks the engine instance for a space. Tiers are tried
// in order: the instance scoped to the space itself, then the workspace
// master. A space-scoped instance always wins over the master, and there
// is no further fallback.
type InstanceResolver struct {
	chain []lookup
}

// NewInstanceResolver creates a resolver over the given instance store.
func NewInstanceResolver(store repository.InstanceStore) *InstanceResolver {
	return &InstanceResolver{
		chain: []lookup{
			{
				name: "space",
				find: func(ctx context.Context, space *models.Space) (*models.EngineInstance, error) {
					return store.GetInstanceForSpace(ctx, space.ID)
				},
			},
			{
				name: "workspace-master",
				find: func(ctx context.Context, space *models.Space) (*models.EngineInstance, error) {
					return store.GetMasterInstance(ctx, space.WorkspaceID)
				},
			},
		},
	}
}

// Resolve returns the instance the space deploys to, or
// ErrNoInstanceConfigured naming the space when the chain is exhausted.
func (r *InstanceResolver) Resolve(ctx context.Context, space *models.Space) (*models.EngineInstance, error) {
	for _, tier := range r.chain {
		instance, err := tier.find(ctx, space)
		if err == nil {
			return instance, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up %s instance: %w", tier.name, err)
		}
	}
	return nil, fmt.Errorf(
		"%w for space %q: configure an instance for this space or set up a workspace master instance",
		ErrNoInstanceConfigured, space.Name)
}
