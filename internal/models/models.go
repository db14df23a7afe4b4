package models

import (
	"time"
)

// Role is a user's system-wide role. Stored and serialized as its string
// value for compatibility with existing clients.
type Role string

const (
	RoleUser       Role = "user"
	RoleSuperadmin Role = "superadmin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleSuperadmin
}

// Bypasses reports whether the role skips all permission checks.
func (r Role) Bypasses() bool {
	return r == RoleSuperadmin
}

// Entity status values. Soft-deleted rows keep their data but are excluded
// from normal reads; they stay addressable by id until a cascading hard
// delete of an ancestor removes them.
const (
	StatusDeleted = 0
	StatusActive  = 1
)

// User represents a system user. Created at registration or on first
// successful external login.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password  string    `gorm:"size:255" json:"-"` // bcrypt hash, never serialized
	Role      Role      `gorm:"size:50;default:user" json:"role"`
	Email     string    `gorm:"size:255" json:"email"`
	Status    int       `gorm:"default:1" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Workspace is the top-level tenant grouping. Exactly one admin, who is
// always treated as a member.
type Workspace struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	AdminID     uint      `gorm:"index;not null" json:"admin_id"`
	Status      int       `gorm:"default:1" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	AdminName string `gorm:"-" json:"admin_name,omitempty"` // enriched on reads
}

// WorkspaceMember is the workspace/user join row. The admin's membership is
// derived from Workspace.AdminID and may or may not have a row here; all
// membership checks must go through WorkspaceService.IsMember.
type WorkspaceMember struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WorkspaceID uint      `gorm:"uniqueIndex:idx_workspace_user;not null" json:"workspace_id"`
	UserID      uint      `gorm:"uniqueIndex:idx_workspace_user;not null" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Project is a mid-level grouping of prompts, scoped to one workspace for
// its whole lifetime.
type Project struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:200;not null" json:"name"`
	Description  string    `gorm:"size:500" json:"description"`
	WorkspaceID  uint      `gorm:"index;not null" json:"workspace_id"`
	Status       int       `gorm:"default:1" json:"status"`
	CreateUserID uint      `json:"create_user_id"`
	UpdateUserID uint      `json:"update_user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Prompt is a named text template. Content always reflects the latest
// history version.
type Prompt struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:200;not null" json:"name"`
	Content      string    `gorm:"type:text" json:"content"`
	ProjectID    uint      `gorm:"index;not null" json:"project_id"`
	Status       int       `gorm:"default:1" json:"status"`
	CreateUserID uint      `json:"create_user_id"`
	UpdateUserID uint      `json:"update_user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	ProjectName string `gorm:"-" json:"project_name,omitempty"` // enriched on reads
}

// PromptHistory is an immutable content snapshot. Versions per prompt form
// a contiguous 1..N sequence; the unique index backs that guarantee.
type PromptHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PromptID  uint      `gorm:"uniqueIndex:idx_prompt_version;not null" json:"prompt_id"`
	Version   int       `gorm:"uniqueIndex:idx_prompt_version;not null" json:"version"`
	Content   string    `gorm:"type:text" json:"content"`
	Message   string    `gorm:"size:500" json:"message"`
	UserID    uint      `gorm:"index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Model is a registered language model endpoint. Invocation is a stub.
type Model struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	APIURL      string    `gorm:"size:500" json:"api_url"`
	APIKey      string    `gorm:"size:500" json:"-"`
	Status      int       `gorm:"default:1" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SystemLog represents a system operation log entry.
type SystemLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID string    `gorm:"size:64;index" json:"request_id"`
	Level     string    `gorm:"size:20;index" json:"level"`
	Module    string    `gorm:"size:100;index" json:"module"`
	Action    string    `gorm:"size:200;index" json:"action"`
	Message   string    `gorm:"type:text" json:"message"`
	UserID    *uint     `json:"user_id"`
	IP        string    `gorm:"size:50" json:"ip"`
	UserAgent string    `gorm:"size:500" json:"user_agent"`
	Extra     string    `gorm:"type:text" json:"extra"` // JSON extra data
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides
func (User) TableName() string            { return "users" }
func (Workspace) TableName() string       { return "workspaces" }
func (WorkspaceMember) TableName() string { return "workspace_members" }
func (Project) TableName() string         { return "projects" }
func (Prompt) TableName() string          { return "prompts" }
func (PromptHistory) TableName() string   { return "prompt_histories" }
func (Model) TableName() string           { return "models" }
func (SystemLog) TableName() string       { return "system_logs" }
