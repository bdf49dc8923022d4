// Package api contains the HTTP handlers for the deployment service
package api

import (
	"github.com/labstack/echo/v4"

	"automation-hub/backend/internal/logging"
	"automation-hub/backend/internal/services"
)

// Server holds the dependencies for the API server.
type Server struct {
	Deployments  *services.DeploymentService
	Provisioning *services.ProvisioningService
	logger       *logging.Logger
}

// NewServer creates a new Server.
func NewServer(deployments *services.DeploymentService, provisioning *services.ProvisioningService, logger *logging.Logger) *Server {
	return &Server{
		Deployments:  deployments,
		Provisioning: provisioning,
		logger:       logger.WithComponent("api"),
	}
}

// RegisterRoutes wires every endpoint onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.HandleHealth)

	v1 := e.Group("/api/v1")

	v1.POST("/workspaces", s.CreateWorkspace)
	v1.GET("/workspaces/:id", s.GetWorkspace)
	v1.PUT("/workspaces/:id/master-instance", s.SetMasterInstance)
	v1.PUT("/workspaces/:id/store-token", s.SetStoreToken)
	v1.GET("/workspaces/:id/spaces", s.ListSpaces)
	v1.GET("/workspaces/:id/automations", s.ListAutomations)
	v1.GET("/workspaces/:id/engine-workflows", s.ListEngineWorkflows)
	v1.GET("/workspaces/:id/engine-workflows/:workflowID", s.GetEngineWorkflow)

	v1.POST("/spaces", s.CreateSpace)
	v1.POST("/spaces/:id/instance", s.CreateSpaceInstance)
	v1.GET("/spaces/:id/deployments", s.ListDeployments)

	v1.POST("/automations", s.CreateAutomation)
	v1.GET("/automations/:id", s.GetAutomation)
	v1.POST("/automations/:id/deploy", s.DeployAutomation)
	v1.POST("/automations/:id/sync", s.SyncAutomation)

	v1.POST("/deployments/:id/toggle", s.ToggleDeployment)
	v1.POST("/deployments/:id/update", s.UpdateDeployment)
}
