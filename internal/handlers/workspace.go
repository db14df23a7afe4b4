package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/promptadmin/backend/internal/middleware"
	"github.com/promptadmin/backend/internal/services"
	"github.com/promptadmin/backend/pkg/response"
	"gorm.io/gorm"
)

type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
	permissions      *services.PermissionService
}

func NewWorkspaceHandler(db *gorm.DB) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: services.NewWorkspaceService(db),
		permissions:      services.NewPermissionService(db),
	}
}

// List returns the workspaces visible to the caller
// GET /api/workspaces/list
func (h *WorkspaceHandler) List(c *gin.Context) {
	workspaces, err := h.workspaceService.List(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, workspaces)
}

// Create creates a workspace. Routed behind SuperadminRequired.
// POST /api/workspaces/create
func (h *WorkspaceHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req services.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	workspace, err := h.workspaceService.Create(&req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, workspace)
}

// Update updates a workspace. Routed behind SuperadminRequired.
// POST /api/workspaces/:id/update
func (h *WorkspaceHandler) Update(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid workspace id")
		return
	}

	var req services.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	workspace, err := h.workspaceService.Update(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, workspace)
}

// Delete hard-deletes a workspace and everything under it. Routed behind
// SuperadminRequired.
// POST /api/workspaces/:id/delete
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid workspace id")
		return
	}

	if err := h.workspaceService.Delete(id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

type memberRequest struct {
	UserIDs []uint `json:"user_ids" binding:"required"`
}

// ListMembers returns the workspace's members, admin first
// GET /api/workspaces/members/:id
func (h *WorkspaceHandler) ListMembers(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid workspace id")
		return
	}

	if err := h.permissions.CheckWorkspace(middleware.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}

	members, err := h.workspaceService.ListMembers(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, members)
}

// AddMembers adds users to the workspace (admin or superadmin). Ids that
// are already members are skipped rather than rejected.
// POST /api/workspaces/members/:id/add
func (h *WorkspaceHandler) AddMembers(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid workspace id")
		return
	}

	if err := h.permissions.CanManageMembers(middleware.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.workspaceService.AddMembers(id, req.UserIDs); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// RemoveMembers removes users from the workspace (admin or superadmin)
// POST /api/workspaces/members/:id/remove
func (h *WorkspaceHandler) RemoveMembers(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid workspace id")
		return
	}

	if err := h.permissions.CanManageMembers(middleware.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	for _, userID := range req.UserIDs {
		if err := h.workspaceService.RemoveMember(id, userID); err != nil {
			response.Error(c, err)
			return
		}
	}
	response.Success(c, nil)
}

// UpdateMembers replaces the member set (admin or superadmin)
// POST /api/workspaces/members/:id/update
func (h *WorkspaceHandler) UpdateMembers(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid workspace id")
		return
	}

	if err := h.permissions.CanManageMembers(middleware.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.workspaceService.ReplaceMembers(id, req.UserIDs); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
