package middleware

import (
	"strings"
	"testing"
)

func TestParseRouteInfo(t *testing.T) {
	tests := []struct {
		path       string
		method     string
		wantModule string
		wantAction string
	}{
		{"/api/prompts/:id/update", "POST", "prompts", "Create"},
		{"/api/workspaces/:id/delete", "POST", "workspaces", "Create"},
		{"/api/projects/:id", "PUT", "projects", "Update"},
		{"/api/models/:id", "DELETE", "models", "Delete"},
		{"", "POST", "unknown", "Create"},
	}

	for _, tt := range tests {
		module, action := parseRouteInfo(tt.path, tt.method)
		if module != tt.wantModule {
			t.Errorf("parseRouteInfo(%q, %q) module = %q, expected %q", tt.path, tt.method, module, tt.wantModule)
		}
		if action != tt.wantAction {
			t.Errorf("parseRouteInfo(%q, %q) action = %q, expected %q", tt.path, tt.method, action, tt.wantAction)
		}
	}
}

func TestMaskSensitiveFields(t *testing.T) {
	body := `{"username":"alice","password":"hunter2"}`
	masked := maskSensitiveFields(body)

	if strings.Contains(masked, "hunter2") {
		t.Errorf("password should be masked, got %q", masked)
	}
	if !strings.Contains(masked, "alice") {
		t.Errorf("non-sensitive fields should survive, got %q", masked)
	}
}

func TestMaskSensitiveFields_NoSensitiveKeys(t *testing.T) {
	body := `{"name":"greeting","content":"hello"}`
	if masked := maskSensitiveFields(body); masked != body {
		t.Errorf("body without sensitive keys should be unchanged, got %q", masked)
	}
}
