package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/promptadmin/backend/internal/middleware"
	"github.com/promptadmin/backend/internal/models"
	"github.com/promptadmin/backend/internal/services"
	"github.com/promptadmin/backend/pkg/response"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	permissions    *services.PermissionService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db),
		permissions:    services.NewPermissionService(db),
	}
}

// List returns projects under a workspace, or across every workspace the
// caller can access when workspace_id is not given.
// GET /api/projects/list?workspace_id=
func (h *ProjectHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var projects []models.Project
	var err error
	if workspaceID := queryID(c, "workspace_id"); workspaceID != 0 {
		if err := h.permissions.CheckWorkspace(userID, workspaceID); err != nil {
			response.Error(c, err)
			return
		}
		projects, err = h.projectService.ListByWorkspace(workspaceID)
	} else {
		projects, err = h.projectService.ListByUser(userID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, projects)
}

// Get returns one project
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid project id")
		return
	}

	if err := h.permissions.CheckProject(middleware.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}

	project, err := h.projectService.GetByID(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

// Create creates a project in a workspace the caller belongs to
// POST /api/projects/create
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.permissions.CheckWorkspace(userID, req.WorkspaceID); err != nil {
		response.Error(c, err)
		return
	}

	project, err := h.projectService.Create(&req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

// Update updates a project's name and description
// POST /api/projects/:id/update
func (h *ProjectHandler) Update(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid project id")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.permissions.CheckProject(userID, id); err != nil {
		response.Error(c, err)
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(id, &req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

// Delete soft-deletes a project
// POST /api/projects/:id/delete
func (h *ProjectHandler) Delete(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid project id")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.permissions.CheckProject(userID, id); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.projectService.Delete(id, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
