package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"automation-hub/backend/internal/config"
	"automation-hub/backend/internal/logging"
	"automation-hub/backend/internal/repository"
	"automation-hub/backend/internal/vault"
	"automation-hub/backend/pkg/models"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.NewLogger(cfg.Server.LogLevel)

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	store := repository.NewPostgresStore(pool)
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	secretVault, err := vault.NewSecretBoxVault(cfg.Vault.Secret)
	if err != nil {
		log.Fatalf("Failed to initialize vault: %v", err)
	}

	// 1. Workspace
	workspace := &models.Workspace{
		Name:          "Local Dev Workspace",
		Description:   "Seeded workspace for local development",
		RepositoryURL: "https://github.com/acme/flows",
	}
	if err := store.CreateWorkspace(ctx, workspace); err != nil {
		log.Fatalf("Failed to create workspace: %v", err)
	}
	logger.Info("Seeded workspace", "id", workspace.ID)

	// 2. Master engine instance. N8N_URL/N8N_API_KEY point it at a real
	// local engine; the defaults only satisfy the schema.
	masterURL := envOr("N8N_URL", "http://localhost:5678")
	masterKey := ""
	if key := os.Getenv("N8N_API_KEY"); key != "" {
		masterKey, err = secretVault.Encrypt(key)
		if err != nil {
			log.Fatalf("Failed to encrypt engine key: %v", err)
		}
	}
	master := &models.EngineInstance{
		WorkspaceID: workspace.ID,
		URL:         masterURL,
		APIKey:      masterKey,
	}
	if err := store.UpsertMasterInstance(ctx, master); err != nil {
		log.Fatalf("Failed to create master instance: %v", err)
	}
	logger.Info("Seeded master instance", "url", masterURL)

	// 3. Spaces
	spaces := []struct {
		Name string
		Kind models.SpaceKind
	}{
		{"Client A", models.SpaceKindClient},
		{"Staging", models.SpaceKindStaging},
		{"Demo", models.SpaceKindDemo},
	}
	var firstSpace *models.Space
	for _, s := range spaces {
		space := &models.Space{
			WorkspaceID: workspace.ID,
			Name:        s.Name,
			Kind:        s.Kind,
			Platform:    models.PlatformN8N,
			IsActive:    true,
		}
		if err := store.CreateSpace(ctx, space); err != nil {
			log.Printf("Failed to create space %s: %v", s.Name, err)
			continue
		}
		if firstSpace == nil {
			firstSpace = space
		}
		logger.Info("Seeded space", "name", s.Name, "id", space.ID)
	}

	// 4. A deployable automation with a minimal webhook workflow
	automation := &models.Automation{
		WorkspaceID:    workspace.ID,
		Name:           "Lead Sync",
		Description:    "Forwards inbound webhook leads to the CRM.",
		RepositoryURL:  workspace.RepositoryURL,
		DefinitionPath: "flows/lead-sync",
		Document: models.WorkflowDocument{
			"nodes": []any{
				map[string]any{
					"name":     "Webhook",
					"type":     "n8n-nodes-base.webhook",
					"position": []any{250.0, 300.0},
					"parameters": map[string]any{
						"path":       "lead-sync",
						"httpMethod": "POST",
					},
				},
			},
			"connections": map[string]any{},
			"settings":    map[string]any{"timezone": "UTC"},
		},
	}
	if err := store.CreateAutomation(ctx, automation); err != nil {
		log.Fatalf("Failed to create automation: %v", err)
	}
	logger.Info("Seeded automation", "name", automation.Name, "id", automation.ID)

	logger.Info("Seeding complete!")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
