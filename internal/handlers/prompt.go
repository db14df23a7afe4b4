package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/promptadmin/backend/internal/middleware"
	"github.com/promptadmin/backend/internal/models"
	"github.com/promptadmin/backend/internal/services"
	"github.com/promptadmin/backend/pkg/response"
	"gorm.io/gorm"
)

type PromptHandler struct {
	promptService *services.PromptService
	permissions   *services.PermissionService
}

func NewPromptHandler(db *gorm.DB) *PromptHandler {
	return &PromptHandler{
		promptService: services.NewPromptService(db),
		permissions:   services.NewPermissionService(db),
	}
}

// List returns prompts scoped by project, by workspace, or to everything
// the caller can access when neither parameter is given.
// GET /api/prompts/list?project_id= | ?workspace_id=
func (h *PromptHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var prompts []models.Prompt
	var err error
	switch {
	case queryID(c, "project_id") != 0:
		projectID := queryID(c, "project_id")
		if err := h.permissions.CheckProject(userID, projectID); err != nil {
			response.Error(c, err)
			return
		}
		prompts, err = h.promptService.ListByProject(projectID)
	case queryID(c, "workspace_id") != 0:
		workspaceID := queryID(c, "workspace_id")
		if err := h.permissions.CheckWorkspace(userID, workspaceID); err != nil {
			response.Error(c, err)
			return
		}
		prompts, err = h.promptService.ListByWorkspace(workspaceID)
	default:
		prompts, err = h.promptService.ListByUser(userID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, prompts)
}

// Get returns one prompt with its current content
// GET /api/prompts/:id
func (h *PromptHandler) Get(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid prompt id")
		return
	}

	if err := h.permissions.CheckPrompt(middleware.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}

	prompt, err := h.promptService.GetByID(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, prompt)
}

// Create creates a prompt along with its first history version
// POST /api/prompts/create
func (h *PromptHandler) Create(c *gin.Context) {
	var req services.CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.permissions.CheckProject(userID, req.ProjectID); err != nil {
		response.Error(c, err)
		return
	}

	prompt, err := h.promptService.Create(&req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, prompt)
}

// Update writes a new content version
// POST /api/prompts/:id/update
func (h *PromptHandler) Update(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid prompt id")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.permissions.CheckPrompt(userID, id); err != nil {
		response.Error(c, err)
		return
	}

	var req services.UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	prompt, err := h.promptService.Update(id, &req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, prompt)
}

// UpdateBasicInfo renames a prompt or moves it to another project. Moving
// needs permission on the prompt AND on the destination project.
// POST /api/prompts/:id/update-basic-info
func (h *PromptHandler) UpdateBasicInfo(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid prompt id")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.permissions.CheckPrompt(userID, id); err != nil {
		response.Error(c, err)
		return
	}

	var req services.UpdatePromptBasicInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if req.ProjectID != 0 {
		if err := h.permissions.CheckProject(userID, req.ProjectID); err != nil {
			response.Error(c, err)
			return
		}
	}

	prompt, err := h.promptService.UpdateBasicInfo(id, &req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, prompt)
}

// Delete soft-deletes a prompt, keeping its history
// POST /api/prompts/:id/delete
func (h *PromptHandler) Delete(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid prompt id")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.permissions.CheckPrompt(userID, id); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.promptService.Delete(id, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// HistoryList returns all versions of a prompt, newest first, no content
// GET /api/prompts/:id/history/list
func (h *PromptHandler) HistoryList(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid prompt id")
		return
	}

	if err := h.permissions.CheckPrompt(middleware.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}

	entries, err := h.promptService.HistoryList(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

// HistoryVersion returns one version including its content
// GET /api/prompts/:id/history/:version
func (h *PromptHandler) HistoryVersion(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid prompt id")
		return
	}
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil || version < 1 {
		response.BadRequest(c, "invalid version")
		return
	}

	if err := h.permissions.CheckPrompt(middleware.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}

	entry, err := h.promptService.HistoryVersion(id, version)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entry)
}
