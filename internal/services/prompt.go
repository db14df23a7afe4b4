package services

import (
	"errors"

	"github.com/promptadmin/backend/internal/models"
	"github.com/promptadmin/backend/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InitialVersionMessage is the changelog note written for the version-1
// history row that is created together with the prompt.
const InitialVersionMessage = "initial version"

// PromptService manages a prompt's live content plus its append-only
// version history. Content writes and history inserts always share one
// transaction so a prompt can never be observed without a matching history
// row.
type PromptService struct {
	db *gorm.DB
}

func NewPromptService(db *gorm.DB) *PromptService {
	return &PromptService{db: db}
}

type CreatePromptRequest struct {
	Name      string `json:"name" binding:"required"`
	Content   string `json:"content"`
	ProjectID uint   `json:"project_id" binding:"required"`
}

type UpdatePromptRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Message string `json:"message"`
}

type UpdatePromptBasicInfoRequest struct {
	Name      string `json:"name"`
	ProjectID uint   `json:"project_id"`
}

// PromptHistoryEntry is the history row shape returned to clients. Content
// is omitted from list views and only populated for single-version reads.
type PromptHistoryEntry struct {
	ID        uint   `json:"id"`
	PromptID  uint   `json:"prompt_id"`
	Version   int    `json:"version"`
	Content   string `json:"content,omitempty"`
	Message   string `json:"message"`
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// Create persists a new prompt together with its version-1 history row.
// Both rows land in one transaction.
func (s *PromptService) Create(req *CreatePromptRequest, userID uint) (*models.Prompt, error) {
	prompt := models.Prompt{
		Name:         req.Name,
		Content:      req.Content,
		ProjectID:    req.ProjectID,
		Status:       models.StatusActive,
		CreateUserID: userID,
		UpdateUserID: userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&prompt).Error; err != nil {
			return err
		}
		return tx.Create(&models.PromptHistory{
			PromptID: prompt.ID,
			Version:  1,
			Content:  prompt.Content,
			Message:  InitialVersionMessage,
			UserID:   userID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

// GetByID returns an active prompt by id, with its project name filled in.
func (s *PromptService) GetByID(id uint) (*models.Prompt, error) {
	var prompt models.Prompt
	if err := s.db.Where("status = ?", models.StatusActive).First(&prompt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("prompt not found or deleted")
		}
		return nil, err
	}
	var project models.Project
	if err := s.db.First(&project, prompt.ProjectID).Error; err == nil {
		prompt.ProjectName = project.Name
	}
	return &prompt, nil
}

// ListByProject returns active prompts under a project, each carrying the
// project's name.
func (s *PromptService) ListByProject(projectID uint) ([]models.Prompt, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found or deleted")
		}
		return nil, err
	}
	return s.promptsForProjects([]models.Project{project})
}

// ListByWorkspace returns active prompts across every active project of a
// workspace.
func (s *PromptService) ListByWorkspace(workspaceID uint) ([]models.Prompt, error) {
	var projects []models.Project
	err := s.db.Where("workspace_id = ? AND status = ?", workspaceID, models.StatusActive).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return s.promptsForProjects(projects)
}

// ListByUser returns active prompts across every workspace the user can
// see: all of them for a superadmin, otherwise those the user administers
// or belongs to.
func (s *PromptService) ListByUser(userID uint) ([]models.Prompt, error) {
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
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return s.promptsForProjects(projects)
}

// promptsForProjects loads the active prompts of the given projects, newest
// first, filling in each prompt's project name.
func (s *PromptService) promptsForProjects(projects []models.Project) ([]models.Prompt, error) {
	if len(projects) == 0 {
		return []models.Prompt{}, nil
	}

	names := make(map[uint]string, len(projects))
	projectIDs := make([]uint, 0, len(projects))
	for _, project := range projects {
		names[project.ID] = project.Name
		projectIDs = append(projectIDs, project.ID)
	}

	var prompts []models.Prompt
	err := s.db.Where("project_id IN ? AND status = ?", projectIDs, models.StatusActive).
		Order("created_at DESC").
		Find(&prompts).Error
	if err != nil {
		return nil, err
	}
	for i := range prompts {
		prompts[i].ProjectName = names[prompts[i].ProjectID]
	}
	return prompts, nil
}

// Update writes a new content version: the prompt row is locked, the next
// version number is read as current-max plus one, a history row is
// inserted, and the live content is updated, all under one transaction.
// The row lock keeps two concurrent updates from claiming the same version
// number.
func (s *PromptService) Update(id uint, req *UpdatePromptRequest, userID uint) (*models.Prompt, error) {
	var prompt models.Prompt

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ?", models.StatusActive).
			First(&prompt, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewNotFound("prompt not found or deleted")
			}
			return err
		}

		var maxVersion int
		err = tx.Model(&models.PromptHistory{}).
			Where("prompt_id = ?", id).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error
		if err != nil {
			return err
		}
		if maxVersion == 0 {
			// Every prompt gets a version-1 row at creation, so an empty
			// history means corrupted data, not a normal state.
			return response.NewInternal("prompt has no version history")
		}

		if err := tx.Create(&models.PromptHistory{
			PromptID: id,
			Version:  maxVersion + 1,
			Content:  req.Content,
			Message:  req.Message,
			UserID:   userID,
		}).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"content":        req.Content,
			"update_user_id": userID,
		}
		if req.Name != "" {
			updates["name"] = req.Name
		}
		return tx.Model(&prompt).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

// UpdateBasicInfo renames a prompt and/or moves it to another project.
// Metadata changes are not versioned, so no history row is written. The
// handler checks permission on both the prompt and the destination project
// before calling this.
func (s *PromptService) UpdateBasicInfo(id uint, req *UpdatePromptBasicInfoRequest, userID uint) (*models.Prompt, error) {
	prompt, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"update_user_id": userID,
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.ProjectID != 0 && req.ProjectID != prompt.ProjectID {
		var project models.Project
		if err := s.db.Where("status = ?", models.StatusActive).First(&project, req.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFound("project not found or deleted")
			}
			return nil, err
		}
		updates["project_id"] = req.ProjectID
	}

	if err := s.db.Model(prompt).Updates(updates).Error; err != nil {
		return nil, err
	}
	return prompt, nil
}

// Delete soft-deletes a prompt. History rows stay behind for audit.
func (s *PromptService) Delete(id uint, userID uint) error {
	prompt, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.db.Model(prompt).Updates(map[string]interface{}{
		"status":         models.StatusDeleted,
		"update_user_id": userID,
	}).Error
}

// HistoryList returns all history entries for a prompt, newest version
// first, without the content field. Authoring usernames are resolved at
// read time.
func (s *PromptService) HistoryList(promptID uint) ([]PromptHistoryEntry, error) {
	var rows []models.PromptHistory
	err := s.db.Where("prompt_id = ?", promptID).
		Order("version DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]PromptHistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry := PromptHistoryEntry{
			ID:        row.ID,
			PromptID:  row.PromptID,
			Version:   row.Version,
			Message:   row.Message,
			UserID:    row.UserID,
			Username:  s.resolveUsername(row.UserID),
			CreatedAt: row.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// HistoryVersion returns one full history entry including content.
func (s *PromptService) HistoryVersion(promptID uint, version int) (*PromptHistoryEntry, error) {
	var row models.PromptHistory
	err := s.db.Where("prompt_id = ? AND version = ?", promptID, version).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("version not found")
		}
		return nil, err
	}

	return &PromptHistoryEntry{
		ID:        row.ID,
		PromptID:  row.PromptID,
		Version:   row.Version,
		Content:   row.Content,
		Message:   row.Message,
		UserID:    row.UserID,
		Username:  s.resolveUsername(row.UserID),
		CreatedAt: row.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

func (s *PromptService) resolveUsername(userID uint) string {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return "unknown user"
	}
	return user.Username
}
