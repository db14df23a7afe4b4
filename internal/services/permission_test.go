package services

import (
	"testing"

	"github.com/promptadmin/backend/internal/models"
	"github.com/promptadmin/backend/pkg/response"
)

func TestPermissionService_NonMemberDenied(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin1", models.RoleUser)
	outsider := createTestUser(t, db, "outsider", models.RoleUser)
	workspace := createTestWorkspace(t, db, "W1", admin.ID)
	project := createTestProject(t, db, "P1", workspace.ID, admin.ID)

	prompt, err := NewPromptService(db).Create(&CreatePromptRequest{
		Name:      "greeting",
		Content:   "A",
		ProjectID: project.ID,
	}, admin.ID)
	if err != nil {
		t.Fatalf("prompt Create failed: %v", err)
	}

	perms := NewPermissionService(db)

	if err := perms.CheckWorkspace(outsider.ID, workspace.ID); !response.IsCode(err, response.CodePermissionDenied) {
		t.Errorf("CheckWorkspace for outsider: expected permission denied, got %v", err)
	}
	if err := perms.CheckProject(outsider.ID, project.ID); !response.IsCode(err, response.CodePermissionDenied) {
		t.Errorf("CheckProject for outsider: expected permission denied, got %v", err)
	}
	if err := perms.CheckPrompt(outsider.ID, prompt.ID); !response.IsCode(err, response.CodePermissionDenied) {
		t.Errorf("CheckPrompt for outsider: expected permission denied, got %v", err)
	}
}

func TestPermissionService_MemberAndAdminAllowed(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin1", models.RoleUser)
	bob := createTestUser(t, db, "bob", models.RoleUser)
	workspace := createTestWorkspace(t, db, "W1", admin.ID)
	project := createTestProject(t, db, "P1", workspace.ID, admin.ID)

	if err := NewWorkspaceService(db).AddMember(workspace.ID, bob.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	perms := NewPermissionService(db)
	for _, u := range []*models.User{admin, bob} {
		if err := perms.CheckProject(u.ID, project.ID); err != nil {
			t.Errorf("CheckProject for %s: expected permitted, got %v", u.Username, err)
		}
	}
}

func TestPermissionService_SuperadminBypass(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin1", models.RoleUser)
	root := createTestUser(t, db, "root", models.RoleSuperadmin)
	workspace := createTestWorkspace(t, db, "W1", admin.ID)
	project := createTestProject(t, db, "P1", workspace.ID, admin.ID)

	prompt, err := NewPromptService(db).Create(&CreatePromptRequest{
		Name:      "greeting",
		Content:   "A",
		ProjectID: project.ID,
	}, admin.ID)
	if err != nil {
		t.Fatalf("prompt Create failed: %v", err)
	}

	perms := NewPermissionService(db)
	if err := perms.CheckWorkspace(root.ID, workspace.ID); err != nil {
		t.Errorf("CheckWorkspace for superadmin: %v", err)
	}
	if err := perms.CheckProject(root.ID, project.ID); err != nil {
		t.Errorf("CheckProject for superadmin: %v", err)
	}
	if err := perms.CheckPrompt(root.ID, prompt.ID); err != nil {
		t.Errorf("CheckPrompt for superadmin: %v", err)
	}
	if err := perms.CanManageMembers(root.ID, workspace.ID); err != nil {
		t.Errorf("CanManageMembers for superadmin: %v", err)
	}
}

func TestPermissionService_FailsClosedOnMissingEntities(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice", models.RoleUser)

	perms := NewPermissionService(db)
	if err := perms.CheckWorkspace(user.ID, 42); !response.IsCode(err, response.CodeNotFound) {
		t.Errorf("missing workspace: expected not found, got %v", err)
	}
	if err := perms.CheckProject(user.ID, 42); !response.IsCode(err, response.CodeNotFound) {
		t.Errorf("missing project: expected not found, got %v", err)
	}
	if err := perms.CheckPrompt(user.ID, 42); !response.IsCode(err, response.CodeNotFound) {
		t.Errorf("missing prompt: expected not found, got %v", err)
	}
	if err := perms.CheckWorkspace(99, 42); !response.IsCode(err, response.CodeNotFound) {
		t.Errorf("missing user: expected not found, got %v", err)
	}
}

func TestPermissionService_SoftDeletedProjectDenied(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin1", models.RoleUser)
	workspace := createTestWorkspace(t, db, "W1", admin.ID)
	project := createTestProject(t, db, "P1", workspace.ID, admin.ID)

	if err := NewProjectService(db).Delete(project.ID, admin.ID); err != nil {
		t.Fatalf("project Delete failed: %v", err)
	}

	perms := NewPermissionService(db)
	if err := perms.CheckProject(admin.ID, project.ID); !response.IsCode(err, response.CodeNotFound) {
		t.Errorf("soft-deleted project: expected not found, got %v", err)
	}
}

func TestPermissionService_MemberCannotManageMembers(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin1", models.RoleUser)
	bob := createTestUser(t, db, "bob", models.RoleUser)
	workspace := createTestWorkspace(t, db, "W1", admin.ID)

	if err := NewWorkspaceService(db).AddMember(workspace.ID, bob.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	perms := NewPermissionService(db)
	if err := perms.CanManageMembers(admin.ID, workspace.ID); err != nil {
		t.Errorf("admin should manage members, got %v", err)
	}
	if err := perms.CanManageMembers(bob.ID, workspace.ID); !response.IsCode(err, response.CodePermissionDenied) {
		t.Errorf("plain member managing members: expected permission denied, got %v", err)
	}
}
