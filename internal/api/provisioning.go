package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"automation-hub/backend/pkg/models"
)

// CreateWorkspace creates a workspace
// (POST /api/v1/workspaces)
func (s *Server) CreateWorkspace(c echo.Context) error {
	var ws models.Workspace
	if err := c.Bind(&ws); err != nil {
		return problem(c, http.StatusBadRequest, "Bad Request", "Invalid request body: "+err.Error())
	}
	if ws.Name == "" {
		return problem(c, http.StatusBadRequest, "Bad Request", "name is required")
	}
	if ws.ID == "" {
		ws.ID = uuid.New().String()
	}
	if err := s.Provisioning.CreateWorkspace(c.Request().Context(), &ws); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, ws)
}

// GetWorkspace returns one workspace
// (GET /api/v1/workspaces/:id)
func (s *Server) GetWorkspace(c echo.Context) error {
	ws, err := s.Provisioning.GetWorkspace(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, ws)
}

// CreateSpace creates a deployment target
// (POST /api/v1/spaces)
func (s *Server) CreateSpace(c echo.Context) error {
	var space models.Space
	if err := c.Bind(&space); err != nil {
		return problem(c, http.StatusBadRequest, "Bad Request", "Invalid request body: "+err.Error())
	}
	if space.WorkspaceID == "" || space.Name == "" {
		return problem(c, http.StatusBadRequest, "Bad Request", "workspace_id and name are required")
	}
	if space.ID == "" {
		space.ID = uuid.New().String()
	}
	if err := s.Provisioning.CreateSpace(c.Request().Context(), &space); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, space)
}

// ListSpaces lists a workspace's spaces
// (GET /api/v1/workspaces/:id/spaces)
func (s *Server) ListSpaces(c echo.Context) error {
	spaces, err := s.Provisioning.ListSpaces(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, spaces)
}

// CreateAutomationRequest is the body of POST /automations. The store
// token rides alongside the record so the definition path can be seeded.
type CreateAutomationRequest struct {
	models.Automation
	StoreToken string `json:"store_token,omitempty"`
}

// CreateAutomation stores an automation and seeds its definition path
// (POST /api/v1/automations)
func (s *Server) CreateAutomation(c echo.Context) error {
	var req CreateAutomationRequest
	if err := c.Bind(&req); err != nil {
		return problem(c, http.StatusBadRequest, "Bad Request", "Invalid request body: "+err.Error())
	}
	if req.WorkspaceID == "" || req.Name == "" {
		return problem(c, http.StatusBadRequest, "Bad Request", "workspace_id and name are required")
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if err := s.Provisioning.CreateAutomation(c.Request().Context(), &req.Automation, req.StoreToken); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, req.Automation)
}

// GetAutomation returns one automation
// (GET /api/v1/automations/:id)
func (s *Server) GetAutomation(c echo.Context) error {
	automation, err := s.Provisioning.GetAutomation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, automation)
}

// ListAutomations lists a workspace's automations
// (GET /api/v1/workspaces/:id/automations)
func (s *Server) ListAutomations(c echo.Context) error {
	automations, err := s.Provisioning.ListAutomations(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, automations)
}

// InstanceRequest carries an engine endpoint and its key.
type InstanceRequest struct {
	URL    string `json:"url"`
	APIKey string `json:"api_key,omitempty"`
}

// SetMasterInstance creates or replaces the workspace master instance
// (PUT /api/v1/workspaces/:id/master-instance)
func (s *Server) SetMasterInstance(c echo.Context) error {
	var req InstanceRequest
	if err := c.Bind(&req); err != nil {
		return problem(c, http.StatusBadRequest, "Bad Request", "Invalid request body: "+err.Error())
	}
	if req.URL == "" {
		return problem(c, http.StatusBadRequest, "Bad Request", "url is required")
	}
	instance, err := s.Provisioning.SetMasterInstance(c.Request().Context(), c.Param("id"), req.URL, req.APIKey)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, instance)
}

// CreateSpaceInstanceRequest binds a dedicated instance to a space.
type CreateSpaceInstanceRequest struct {
	WorkspaceID string `json:"workspace_id"`
	URL         string `json:"url"`
	APIKey      string `json:"api_key,omitempty"`
}

// CreateSpaceInstance binds an engine instance to a space
// (POST /api/v1/spaces/:id/instance)
func (s *Server) CreateSpaceInstance(c echo.Context) error {
	var req CreateSpaceInstanceRequest
	if err := c.Bind(&req); err != nil {
		return problem(c, http.StatusBadRequest, "Bad Request", "Invalid request body: "+err.Error())
	}
	if req.WorkspaceID == "" || req.URL == "" {
		return problem(c, http.StatusBadRequest, "Bad Request", "workspace_id and url are required")
	}
	instance, err := s.Provisioning.CreateSpaceInstance(c.Request().Context(), req.WorkspaceID, c.Param("id"), req.URL, req.APIKey)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, instance)
}

// StoreTokenRequest carries a descriptor-store token.
type StoreTokenRequest struct {
	Token string `json:"token"`
}

// SetStoreToken saves a workspace-wide descriptor-store token
// (PUT /api/v1/workspaces/:id/store-token)
func (s *Server) SetStoreToken(c echo.Context) error {
	var req StoreTokenRequest
	if err := c.Bind(&req); err != nil {
		return problem(c, http.StatusBadRequest, "Bad Request", "Invalid request body: "+err.Error())
	}
	if req.Token == "" {
		return problem(c, http.StatusBadRequest, "Bad Request", "token is required")
	}
	if err := s.Provisioning.StoreWorkspaceToken(c.Request().Context(), c.Param("id"), req.Token); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
