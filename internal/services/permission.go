package services

import (
	"errors"

	"github.com/promptadmin/backend/internal/models"
	"github.com/promptadmin/backend/pkg/response"
	"gorm.io/gorm"
)

// PermissionService decides whether a user may act on a workspace, project
// or prompt. It only reads; every check walks the hierarchy up to workspace
// membership and fails closed when an intermediate entity is missing or
// soft-deleted.
type PermissionService struct {
	db *gorm.DB
}

func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

func (s *PermissionService) getUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.Where("status = ?", models.StatusActive).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// isMember is the single membership predicate: true when the user is the
// workspace's admin or has a member row. Admin membership is derived, not
// stored.
func (s *PermissionService) isMember(workspace *models.Workspace, userID uint) (bool, error) {
	if workspace.AdminID == userID {
		return true, nil
	}
	var count int64
	err := s.db.Model(&models.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspace.ID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CheckWorkspace verifies the user may access the workspace: superadmin
// bypass or membership.
func (s *PermissionService) CheckWorkspace(userID, workspaceID uint) error {
	user, err := s.getUser(userID)
	if err != nil {
		return err
	}
	if user.Role.Bypasses() {
		return nil
	}

	var workspace models.Workspace
	if err := s.db.Where("status = ?", models.StatusActive).First(&workspace, workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("workspace not found or deleted")
		}
		return err
	}

	member, err := s.isMember(&workspace, userID)
	if err != nil {
		return err
	}
	if !member {
		return response.NewPermissionDenied("no permission for this workspace")
	}
	return nil
}

// CheckProject verifies the user may access the project via membership in
// its owning workspace.
func (s *PermissionService) CheckProject(userID, projectID uint) error {
	user, err := s.getUser(userID)
	if err != nil {
		return err
	}
	if user.Role.Bypasses() {
		return nil
	}

	var project models.Project
	if err := s.db.Where("status = ?", models.StatusActive).First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("project not found or deleted")
		}
		return err
	}

	var workspace models.Workspace
	if err := s.db.Where("status = ?", models.StatusActive).First(&workspace, project.WorkspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("workspace not found or deleted")
		}
		return err
	}

	member, err := s.isMember(&workspace, userID)
	if err != nil {
		return err
	}
	if !member {
		return response.NewPermissionDenied("no permission for this project")
	}
	return nil
}

// CheckPrompt resolves the prompt's project and recurses into the project
// check.
func (s *PermissionService) CheckPrompt(userID, promptID uint) error {
	user, err := s.getUser(userID)
	if err != nil {
		return err
	}
	if user.Role.Bypasses() {
		return nil
	}

	var prompt models.Prompt
	if err := s.db.Where("status = ?", models.StatusActive).First(&prompt, promptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("prompt not found or deleted")
		}
		return err
	}

	return s.CheckProject(userID, prompt.ProjectID)
}

// CanManageMembers reports whether the user may add/remove/replace the
// workspace's member set: superadmin or the workspace's admin, nobody else.
func (s *PermissionService) CanManageMembers(userID, workspaceID uint) error {
	user, err := s.getUser(userID)
	if err != nil {
		return err
	}
	if user.Role.Bypasses() {
		return nil
	}

	var workspace models.Workspace
	if err := s.db.Where("status = ?", models.StatusActive).First(&workspace, workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("workspace not found or deleted")
		}
		return err
	}

	if workspace.AdminID != userID {
		return response.NewPermissionDenied("only the workspace admin can manage members")
	}
	return nil
}
