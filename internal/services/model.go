package services

import (
	"errors"
	"fmt"

	"github.com/promptadmin/backend/internal/models"
	"github.com/promptadmin/backend/pkg/response"
	"gorm.io/gorm"
)

// ModelService is a registry of language model endpoints. Invoking a model
// is not wired to any provider yet; Call returns a canned placeholder.
type ModelService struct {
	db *gorm.DB
}

func NewModelService(db *gorm.DB) *ModelService {
	return &ModelService{db: db}
}

type CreateModelRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	APIURL      string `json:"api_url"`
	APIKey      string `json:"api_key"`
}

type UpdateModelRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	APIURL      string `json:"api_url"`
	APIKey      string `json:"api_key"`
}

type CallModelRequest struct {
	ModelID uint   `json:"model_id" binding:"required"`
	Prompt  string `json:"prompt" binding:"required"`
}

func (s *ModelService) List() ([]models.Model, error) {
	var items []models.Model
	err := s.db.Where("status = ?", models.StatusActive).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ModelService) GetByID(id uint) (*models.Model, error) {
	var model models.Model
	if err := s.db.Where("status = ?", models.StatusActive).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("model not found or deleted")
		}
		return nil, err
	}
	return &model, nil
}

func (s *ModelService) Create(req *CreateModelRequest) (*models.Model, error) {
	model := models.Model{
		Name:        req.Name,
		Description: req.Description,
		APIURL:      req.APIURL,
		APIKey:      req.APIKey,
		Status:      models.StatusActive,
	}
	if err := s.db.Create(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

func (s *ModelService) Update(id uint, req *UpdateModelRequest) (*models.Model, error) {
	model, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.APIURL != "" {
		updates["api_url"] = req.APIURL
	}
	if req.APIKey != "" {
		updates["api_key"] = req.APIKey
	}

	if len(updates) > 0 {
		if err := s.db.Model(model).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return model, nil
}

func (s *ModelService) Delete(id uint) error {
	model, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.db.Model(model).Update("status", models.StatusDeleted).Error
}

// Call is a placeholder until a real provider integration lands. It still
// validates that the target model exists.
func (s *ModelService) Call(req *CallModelRequest) (string, error) {
	model, err := s.GetByID(req.ModelID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("model %q is not connected to a provider yet", model.Name), nil
}
