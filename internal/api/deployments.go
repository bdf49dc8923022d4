package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"automation-hub/backend/internal/services"
)

// DeployRequest is the body of POST /automations/:id/deploy.
type DeployRequest struct {
	SpaceID string `json:"space_id"`
	// StoreToken is optional; when empty the workspace's stored
	// credential is used.
	StoreToken string `json:"store_token,omitempty"`
}

// SyncRequest is the body of POST /automations/:id/sync.
type SyncRequest struct {
	StoreToken string `json:"store_token,omitempty"`
}

// ToggleRequest is the body of POST /deployments/:id/toggle.
type ToggleRequest struct {
	Action string `json:"action"`
}

// DeployAutomation pushes an automation to a space
// (POST /api/v1/automations/:id/deploy)
func (s *Server) DeployAutomation(c echo.Context) error {
	ctx := c.Request().Context()

	var req DeployRequest
	if err := c.Bind(&req); err != nil {
		return problem(c, http.StatusBadRequest, "Bad Request", "Invalid request body: "+err.Error())
	}
	if req.SpaceID == "" {
		return problem(c, http.StatusBadRequest, "Bad Request", "space_id is required")
	}

	result, err := s.Deployments.Deploy(ctx, c.Param("id"), req.SpaceID, req.StoreToken)
	if err != nil {
		var partial *services.PartialError
		if errors.As(err, &partial) {
			// The workflow is live; report the deploy with the
			// descriptor failure attached rather than as an error.
			return c.JSON(http.StatusOK, echo.Map{
				"result":  result,
				"warning": partial.Error(),
			})
		}
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"result": result})
}

// SyncAutomation pulls the canonical document from the master instance
// (POST /api/v1/automations/:id/sync)
func (s *Server) SyncAutomation(c echo.Context) error {
	ctx := c.Request().Context()

	var req SyncRequest
	if err := c.Bind(&req); err != nil {
		return problem(c, http.StatusBadRequest, "Bad Request", "Invalid request body: "+err.Error())
	}

	result, err := s.Deployments.Resync(ctx, c.Param("id"), req.StoreToken)
	if err != nil {
		var partial *services.PartialError
		if errors.As(err, &partial) {
			return c.JSON(http.StatusOK, echo.Map{
				"result":  result,
				"warning": partial.Error(),
			})
		}
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"result": result})
}

// ToggleDeployment activates or deactivates a deployed workflow
// (POST /api/v1/deployments/:id/toggle)
func (s *Server) ToggleDeployment(c echo.Context) error {
	ctx := c.Request().Context()

	var req ToggleRequest
	if err := c.Bind(&req); err != nil {
		return problem(c, http.StatusBadRequest, "Bad Request", "Invalid request body: "+err.Error())
	}

	result, err := s.Deployments.ToggleActivation(ctx, c.Param("id"), services.ActivationAction(req.Action))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"result": result})
}

// UpdateDeployment re-projects the stored document onto the live workflow
// (POST /api/v1/deployments/:id/update)
func (s *Server) UpdateDeployment(c echo.Context) error {
	result, err := s.Deployments.UpdateLiveWorkflow(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"result": result})
}

// ListDeployments lists the ledger rows for a space
// (GET /api/v1/spaces/:id/deployments)
func (s *Server) ListDeployments(c echo.Context) error {
	deployments, err := s.Provisioning.ListDeploymentsForSpace(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, deployments)
}

// ListEngineWorkflows lists the workflows on the workspace master
// (GET /api/v1/workspaces/:id/engine-workflows)
func (s *Server) ListEngineWorkflows(c echo.Context) error {
	summaries, err := s.Deployments.ListEngineWorkflows(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, summaries)
}

// GetEngineWorkflow fetches one workflow document from the workspace master
// (GET /api/v1/workspaces/:id/engine-workflows/:workflowID)
func (s *Server) GetEngineWorkflow(c echo.Context) error {
	doc, err := s.Deployments.GetEngineWorkflow(c.Request().Context(), c.Param("id"), c.Param("workflowID"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}
