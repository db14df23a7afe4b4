package services

import (
	"errors"
	"fmt"

	"github.com/promptadmin/backend/internal/models"
	"github.com/promptadmin/backend/pkg/logger"
	"github.com/promptadmin/backend/pkg/response"
	"gorm.io/gorm"
)

// WorkspaceService owns workspaces and their member sets. It is also the
// only component allowed to hard-delete across entity tables, via the
// cascading Delete.
type WorkspaceService struct {
	db *gorm.DB
}

func NewWorkspaceService(db *gorm.DB) *WorkspaceService {
	return &WorkspaceService{db: db}
}

type CreateWorkspaceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	AdminID     uint   `json:"admin_id"`
}

type UpdateWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AdminID     *uint  `json:"admin_id"`
}

// WorkspaceMemberDTO is the member row shape returned to clients.
type WorkspaceMemberDTO struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

// List returns the active workspaces visible to the user: all of them for a
// superadmin, otherwise those the user administers or belongs to. Each row
// is enriched with the admin's username.
func (s *WorkspaceService) List(userID uint) ([]models.Workspace, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	query := s.db.Where("status = ?", models.StatusActive)
	if !user.Role.Bypasses() {
		memberOf := s.db.Model(&models.WorkspaceMember{}).
			Select("workspace_id").
			Where("user_id = ?", userID)
		query = query.Where("admin_id = ? OR id IN (?)", userID, memberOf)
	}

	var workspaces []models.Workspace
	if err := query.Order("created_at DESC").Find(&workspaces).Error; err != nil {
		return nil, err
	}

	for i := range workspaces {
		var admin models.User
		if err := s.db.First(&admin, workspaces[i].AdminID).Error; err == nil {
			workspaces[i].AdminName = admin.Username
		}
	}
	return workspaces, nil
}

// GetByID returns an active workspace by id.
func (s *WorkspaceService) GetByID(id uint) (*models.Workspace, error) {
	var workspace models.Workspace
	if err := s.db.Where("status = ?", models.StatusActive).First(&workspace, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("workspace not found or deleted")
		}
		return nil, err
	}
	return &workspace, nil
}

// Create creates a workspace. The admin defaults to the creator when the
// request does not name one. Admin membership is derived from AdminID, so
// no member row is written.
func (s *WorkspaceService) Create(req *CreateWorkspaceRequest, userID uint) (*models.Workspace, error) {
	adminID := req.AdminID
	if adminID == 0 {
		adminID = userID
	}

	var admin models.User
	if err := s.db.Where("status = ?", models.StatusActive).First(&admin, adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("admin user not found")
		}
		return nil, err
	}

	workspace := models.Workspace{
		Name:        req.Name,
		Description: req.Description,
		AdminID:     adminID,
		Status:      models.StatusActive,
	}
	if err := s.db.Create(&workspace).Error; err != nil {
		return nil, err
	}
	workspace.AdminName = admin.Username
	return &workspace, nil
}

// Update changes name, description or admin of a workspace.
func (s *WorkspaceService) Update(id uint, req *UpdateWorkspaceRequest) (*models.Workspace, error) {
	workspace, err := s.GetByID(id)
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
	if req.AdminID != nil {
		var admin models.User
		if err := s.db.Where("status = ?", models.StatusActive).First(&admin, *req.AdminID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFound("admin user not found")
			}
			return nil, err
		}
		updates["admin_id"] = *req.AdminID
	}

	if len(updates) > 0 {
		if err := s.db.Model(workspace).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return workspace, nil
}

// Delete hard-deletes the workspace and everything under it: prompt
// histories, prompts, projects, member rows, then the workspace row. The
// whole cascade is one transaction; a failure at any step rolls back all of
// it.
func (s *WorkspaceService) Delete(id uint) error {
	workspace, err := s.GetByID(id)
	if err != nil {
		return err
	}

	var projectIDs, promptIDs []uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Project{}).
			Where("workspace_id = ?", id).
			Pluck("id", &projectIDs).Error; err != nil {
			return err
		}

		if len(projectIDs) > 0 {
			if err := tx.Model(&models.Prompt{}).
				Where("project_id IN ?", projectIDs).
				Pluck("id", &promptIDs).Error; err != nil {
				return err
			}

			if len(promptIDs) > 0 {
				if err := tx.Where("prompt_id IN ?", promptIDs).
					Delete(&models.PromptHistory{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("project_id IN ?", projectIDs).
				Delete(&models.Prompt{}).Error; err != nil {
				return err
			}
			if err := tx.Where("workspace_id = ?", id).
				Delete(&models.Project{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("workspace_id = ?", id).
			Delete(&models.WorkspaceMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Workspace{}, id).Error
	})
	if err != nil {
		return err
	}

	LogInfo("workspace", "CascadeDelete",
		fmt.Sprintf("workspace %q (%d) hard-deleted with %d projects and %d prompts",
			workspace.Name, id, len(projectIDs), len(promptIDs)),
		nil, "", "", nil)
	return nil
}

// IsMember is the single membership predicate for a workspace: the admin is
// always a member, everyone else needs a member row.
func (s *WorkspaceService) IsMember(workspaceID, userID uint) (bool, error) {
	workspace, err := s.GetByID(workspaceID)
	if err != nil {
		return false, err
	}
	if workspace.AdminID == userID {
		return true, nil
	}
	var count int64
	err = s.db.Model(&models.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddMember adds a user to the workspace. Adding an existing member fails,
// including the admin, who counts as a member without a row.
func (s *WorkspaceService) AddMember(workspaceID, userID uint) error {
	var user models.User
	if err := s.db.Where("status = ?", models.StatusActive).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("user not found")
		}
		return err
	}

	member, err := s.IsMember(workspaceID, userID)
	if err != nil {
		return err
	}
	if member {
		return response.NewConflict("user is already a member")
	}

	return s.db.Create(&models.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
	}).Error
}

// AddMembers adds the given users to the workspace in one transaction.
// Ids that are already members are skipped, the admin included; an unknown
// user id fails the whole batch so no partial additions survive.
func (s *WorkspaceService) AddMembers(workspaceID uint, userIDs []uint) error {
	workspace, err := s.GetByID(workspaceID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		seen := make(map[uint]bool)
		for _, userID := range userIDs {
			if userID == workspace.AdminID || seen[userID] {
				continue
			}
			seen[userID] = true

			var user models.User
			if err := tx.Where("status = ?", models.StatusActive).First(&user, userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return response.NewNotFound("user not found")
				}
				return err
			}

			var count int64
			if err := tx.Model(&models.WorkspaceMember{}).
				Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			if err := tx.Create(&models.WorkspaceMember{
				WorkspaceID: workspaceID,
				UserID:      userID,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveMember removes a user from the workspace. The admin cannot be
// removed.
func (s *WorkspaceService) RemoveMember(workspaceID, userID uint) error {
	workspace, err := s.GetByID(workspaceID)
	if err != nil {
		return err
	}
	if workspace.AdminID == userID {
		return response.NewConflict("cannot remove the workspace admin")
	}

	result := s.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&models.WorkspaceMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("user is not a member")
	}
	return nil
}

// ListMembers returns the workspace's members, admin first.
func (s *WorkspaceService) ListMembers(workspaceID uint) ([]WorkspaceMemberDTO, error) {
	workspace, err := s.GetByID(workspaceID)
	if err != nil {
		return nil, err
	}

	members := make([]WorkspaceMemberDTO, 0)

	var admin models.User
	if err := s.db.First(&admin, workspace.AdminID).Error; err == nil {
		members = append(members, WorkspaceMemberDTO{
			ID:       admin.ID,
			Username: admin.Username,
			Email:    admin.Email,
			Role:     admin.Role,
		})
	}

	var rows []models.WorkspaceMember
	if err := s.db.Where("workspace_id = ?", workspaceID).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.UserID == workspace.AdminID {
			continue
		}
		var user models.User
		if err := s.db.First(&user, row.UserID).Error; err != nil {
			logger.Warnf("Workspace %d has member row for missing user %d", workspaceID, row.UserID)
			continue
		}
		members = append(members, WorkspaceMemberDTO{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		})
	}
	return members, nil
}

// ReplaceMembers replaces the member set with the given user ids, as a
// remove-all-then-add-all transaction. The admin stays a member regardless
// of whether the list names them.
func (s *WorkspaceService) ReplaceMembers(workspaceID uint, userIDs []uint) error {
	workspace, err := s.GetByID(workspaceID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workspace_id = ?", workspaceID).
			Delete(&models.WorkspaceMember{}).Error; err != nil {
			return err
		}

		seen := make(map[uint]bool)
		for _, userID := range userIDs {
			// The admin is a member by derivation; never store a row for them.
			if userID == workspace.AdminID || seen[userID] {
				continue
			}
			seen[userID] = true

			var user models.User
			if err := tx.Where("status = ?", models.StatusActive).First(&user, userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return response.NewNotFound("user not found")
				}
				return err
			}
			if err := tx.Create(&models.WorkspaceMember{
				WorkspaceID: workspaceID,
				UserID:      userID,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureDefaultWorkspace creates the configured default workspace at
// startup when no workspace exists yet. New users join it on first login.
func (s *WorkspaceService) EnsureDefaultWorkspace(adminID uint) (*models.Workspace, error) {
	var workspace models.Workspace
	err := s.db.Where("status = ?", models.StatusActive).First(&workspace).Error
	if err == nil {
		return &workspace, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	workspace = models.Workspace{
		Name:        "Default Workspace",
		Description: "Created automatically on first startup",
		AdminID:     adminID,
		Status:      models.StatusActive,
	}
	if err := s.db.Create(&workspace).Error; err != nil {
		return nil, err
	}
	logger.Infof("Created default workspace %d", workspace.ID)
	return &workspace, nil
}
