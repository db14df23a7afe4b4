package services

import (
	"testing"

	"github.com/promptadmin/backend/internal/config"
	"github.com/promptadmin/backend/internal/models"
	"github.com/promptadmin/backend/internal/utils"
	"github.com/promptadmin/backend/pkg/response"
	"gorm.io/gorm"
)

func newTestAuthService(db *gorm.DB, defaultWorkspaceID uint) *AuthService {
	cfg := config.DefaultConfig()
	cfg.Auth.DefaultWorkspaceID = defaultWorkspaceID
	utils.SetJWTSecret(cfg.JWT.Secret)
	return NewAuthService(db, cfg)
}

func TestAuthService_Login_Local(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "alice", models.RoleUser)
	service := newTestAuthService(db, 0)

	resp, err := service.Login(&LoginRequest{Username: "alice", Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.Username != "alice" {
		t.Errorf("username = %q, expected %q", resp.User.Username, "alice")
	}

	claims, err := utils.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token should parse: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("token user = %d, expected %d", claims.UserID, resp.User.ID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "alice", models.RoleUser)
	service := newTestAuthService(db, 0)

	_, err := service.Login(&LoginRequest{Username: "alice", Password: "wrong"})
	if !response.IsCode(err, response.CodeAuthentication) {
		t.Errorf("expected authentication failure, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	db := setupTestDB(t)
	service := newTestAuthService(db, 0)

	_, err := service.Login(&LoginRequest{Username: "ghost", Password: "password123"})
	if !response.IsCode(err, response.CodeAuthentication) {
		t.Errorf("expected authentication failure, got %v", err)
	}
}

func TestAuthService_Login_DisabledUser(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice", models.RoleUser)
	db.Model(user).Update("status", models.StatusDeleted)
	service := newTestAuthService(db, 0)

	_, err := service.Login(&LoginRequest{Username: "alice", Password: "password123"})
	if !response.IsCode(err, response.CodeAuthentication) {
		t.Errorf("expected authentication failure for disabled user, got %v", err)
	}
}

func TestAuthService_Register(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin1", models.RoleUser)
	workspace := createTestWorkspace(t, db, "Default", admin.ID)
	service := newTestAuthService(db, workspace.ID)

	user, err := service.Register(&RegisterRequest{Username: "carol", Password: "secret99"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Role != models.RoleUser {
		t.Errorf("role = %q, expected %q", user.Role, models.RoleUser)
	}

	// New users join the default workspace.
	member, err := NewWorkspaceService(db).IsMember(workspace.ID, user.ID)
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if !member {
		t.Error("registered user should have joined the default workspace")
	}

	_, err = service.Register(&RegisterRequest{Username: "carol", Password: "secret99"})
	if !response.IsCode(err, response.CodeConflict) {
		t.Errorf("duplicate username should conflict, got %v", err)
	}
}

func TestAuthService_Register_MissingDefaultWorkspaceIsNonFatal(t *testing.T) {
	db := setupTestDB(t)
	// Default workspace 42 does not exist; registration must still succeed.
	service := newTestAuthService(db, 42)

	user, err := service.Register(&RegisterRequest{Username: "carol", Password: "secret99"})
	if err != nil {
		t.Fatalf("Register should swallow the workspace join failure, got %v", err)
	}
	if user.ID == 0 {
		t.Error("expected a persisted user")
	}
}

func TestAuthService_EnsureSuperadmin(t *testing.T) {
	db := setupTestDB(t)
	service := newTestAuthService(db, 0)

	first, err := service.EnsureSuperadmin()
	if err != nil {
		t.Fatalf("EnsureSuperadmin failed: %v", err)
	}
	if first.Role != models.RoleSuperadmin {
		t.Errorf("role = %q, expected %q", first.Role, models.RoleSuperadmin)
	}

	second, err := service.EnsureSuperadmin()
	if err != nil {
		t.Fatalf("EnsureSuperadmin failed on second call: %v", err)
	}
	if second.ID != first.ID {
		t.Error("EnsureSuperadmin should be idempotent")
	}

	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleSuperadmin).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 superadmin, got %d", count)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice", models.RoleUser)
	service := newTestAuthService(db, 0)

	err := service.ChangePassword(user.ID, &ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newsecret",
	})
	if !response.IsCode(err, response.CodeValidation) {
		t.Errorf("wrong old password: expected validation error, got %v", err)
	}

	err = service.ChangePassword(user.ID, &ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newsecret",
	})
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := service.Login(&LoginRequest{Username: "alice", Password: "newsecret"}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if _, err := service.Login(&LoginRequest{Username: "alice", Password: "password123"}); err == nil {
		t.Error("login with old password should fail")
	}
}

func TestAuthService_Login_FailureRecordedInSystemLog(t *testing.T) {
	db := setupTestDB(t)
	InitSystemLogger(db)
	t.Cleanup(func() { InitSystemLogger(nil) })

	createTestUser(t, db, "alice", models.RoleUser)
	service := newTestAuthService(db, 0)

	if _, err := service.Login(&LoginRequest{Username: "alice", Password: "wrong"}); err == nil {
		t.Fatal("expected login to fail")
	}

	var entries []models.SystemLog
	if err := db.Where("module = ? AND action = ?", "auth", "Login").Find(&entries).Error; err != nil {
		t.Fatalf("failed to load system logs: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 failed-login log entry, got %d", len(entries))
	}
	if entries[0].Level != "warning" {
		t.Errorf("log level = %q, expected %q", entries[0].Level, "warning")
	}
}
