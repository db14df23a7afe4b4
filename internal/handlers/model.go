package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/promptadmin/backend/internal/services"
	"github.com/promptadmin/backend/pkg/response"
	"gorm.io/gorm"
)

type ModelHandler struct {
	modelService *services.ModelService
}

func NewModelHandler(db *gorm.DB) *ModelHandler {
	return &ModelHandler{
		modelService: services.NewModelService(db),
	}
}

// List returns registered models
// GET /api/models/list
func (h *ModelHandler) List(c *gin.Context) {
	models, err := h.modelService.List()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, models)
}

// Create registers a model endpoint. Routed behind SuperadminRequired.
// POST /api/models/create
func (h *ModelHandler) Create(c *gin.Context) {
	var req services.CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	model, err := h.modelService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, model)
}

// Update updates a model registration. Routed behind SuperadminRequired.
// POST /api/models/:id/update
func (h *ModelHandler) Update(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid model id")
		return
	}

	var req services.UpdateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	model, err := h.modelService.Update(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, model)
}

// Delete removes a model registration. Routed behind SuperadminRequired.
// POST /api/models/:id/delete
func (h *ModelHandler) Delete(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		response.BadRequest(c, "invalid model id")
		return
	}

	if err := h.modelService.Delete(id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Call invokes a model with a prompt. Placeholder until a provider
// integration exists.
// POST /api/models/call
func (h *ModelHandler) Call(c *gin.Context) {
	var req services.CallModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.modelService.Call(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"result": result})
}
