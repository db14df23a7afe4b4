package services

import (
	"testing"

	"github.com/promptadmin/backend/internal/models"
	"github.com/promptadmin/backend/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Each sqlite :memory: connection is its own database; pin the pool to
	// one connection so all queries (and concurrent transactions) share it.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Project{},
		&models.Prompt{},
		&models.PromptHistory{},
		&models.Model{},
		&models.SystemLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	hashed, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Username: username,
		Password: hashed,
		Role:     role,
		Status:   models.StatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

func createTestWorkspace(t *testing.T, db *gorm.DB, name string, adminID uint) *models.Workspace {
	t.Helper()

	workspace := models.Workspace{
		Name:    name,
		AdminID: adminID,
		Status:  models.StatusActive,
	}
	if err := db.Create(&workspace).Error; err != nil {
		t.Fatalf("failed to create workspace %s: %v", name, err)
	}
	return &workspace
}

func createTestProject(t *testing.T, db *gorm.DB, name string, workspaceID, userID uint) *models.Project {
	t.Helper()

	project := models.Project{
		Name:         name,
		WorkspaceID:  workspaceID,
		Status:       models.StatusActive,
		CreateUserID: userID,
		UpdateUserID: userID,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project %s: %v", name, err)
	}
	return &project
}
