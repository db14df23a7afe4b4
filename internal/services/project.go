package services

import (
	"errors"

	"github.com/promptadmin/backend/internal/models"
	"github.com/promptadmin/backend/pkg/response"
	"gorm.io/gorm"
)

// ProjectService is CRUD over projects scoped to a workspace. Permission
// checks happen in the handlers through PermissionService; a project's
// workspace never changes after creation.
type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	WorkspaceID uint   `json:"workspace_id" binding:"required"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListByWorkspace returns active projects under a workspace.
func (s *ProjectService) ListByWorkspace(workspaceID uint) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.Where("workspace_id = ? AND status = ?", workspaceID, models.StatusActive).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByUser returns active projects across every workspace the user can
// see: all of them for a superadmin, otherwise those the user administers
// or belongs to.
func (s *ProjectService) ListByUser(userID uint) ([]models.Project, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	workspaceIDs := s.db.Model(&models.Workspace{}).
		Select("id").
		Where("status = ?", models.StatusActive)
	if !user.Role.Bypasses() {
		memberOf := s.db.Model(&models.WorkspaceMember{}).
			Select("workspace_id").
			Where("user_id = ?", userID)
		workspaceIDs = workspaceIDs.Where("admin_id = ? OR id IN (?)", userID, memberOf)
	}

	var projects []models.Project
	err := s.db.Where("workspace_id IN (?) AND status = ?", workspaceIDs, models.StatusActive).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// GetByID returns an active project by id.
func (s *ProjectService) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("status = ?", models.StatusActive).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found or deleted")
		}
		return nil, err
	}
	return &project, nil
}

// Create creates a project in the given workspace.
func (s *ProjectService) Create(req *CreateProjectRequest, userID uint) (*models.Project, error) {
	var workspace models.Workspace
	if err := s.db.Where("status = ?", models.StatusActive).First(&workspace, req.WorkspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("workspace not found or deleted")
		}
		return nil, err
	}

	project := models.Project{
		Name:         req.Name,
		Description:  req.Description,
		WorkspaceID:  req.WorkspaceID,
		Status:       models.StatusActive,
		CreateUserID: userID,
		UpdateUserID: userID,
	}
	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update changes a project's name and description. The owning workspace is
// immutable.
func (s *ProjectService) Update(id uint, req *UpdateProjectRequest, userID uint) (*models.Project, error) {
	project, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"update_user_id": userID,
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}

	if err := s.db.Model(project).Updates(updates).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Delete soft-deletes a project. Its prompts are left untouched and stay
// individually addressable.
func (s *ProjectService) Delete(id uint, userID uint) error {
	project, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.db.Model(project).Updates(map[string]interface{}{
		"status":         models.StatusDeleted,
		"update_user_id": userID,
	}).Error
}
