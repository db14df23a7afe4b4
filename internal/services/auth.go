package services

import (
	"errors"
	"time"

	"github.com/promptadmin/backend/internal/config"
	"github.com/promptadmin/backend/internal/models"
	"github.com/promptadmin/backend/internal/utils"
	"github.com/promptadmin/backend/pkg/logger"
	"github.com/promptadmin/backend/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db          *gorm.DB
	ldapService *LDAPService
	jwtConfig   *config.JWTConfig
	authConfig  *config.AuthConfig
	workspaces  *WorkspaceService
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:          db,
		ldapService: NewLDAPService(&cfg.LDAP),
		jwtConfig:   &cfg.JWT,
		authConfig:  &cfg.Auth,
		workspaces:  NewWorkspaceService(db),
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	ExpireAt time.Time    `json:"expire_at"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// Login validates credentials (LDAP when enabled, otherwise the local
// bcrypt hash) and issues a JWT. LDAP users are created locally on first
// successful login and joined to the default workspace as a best-effort
// side effect: a failure there is logged and swallowed, never surfaced to
// the caller.
func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, response.NewValidation("username and password are required")
	}

	var user *models.User
	var err error
	if s.ldapService.Enabled() {
		user, err = s.ldapAuth(req.Username, req.Password)
	} else {
		user, err = s.localAuth(req.Username, req.Password)
	}
	if err != nil {
		if response.IsCode(err, response.CodeAuthentication) {
			LogWarning("auth", "Login", "failed login for "+req.Username, nil, "", "", nil)
		}
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, user.Username, string(user.Role), s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:    token,
		User:     user,
		ExpireAt: time.Now().Add(time.Duration(s.jwtConfig.ExpireHour) * time.Hour),
	}, nil
}

func (s *AuthService) localAuth(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAuthentication("invalid username or password")
		}
		return nil, err
	}
	if user.Status != models.StatusActive {
		return nil, response.NewAuthentication("user is disabled")
	}
	if !utils.CheckPassword(password, user.Password) {
		return nil, response.NewAuthentication("invalid username or password")
	}
	return &user, nil
}

func (s *AuthService) ldapAuth(username, password string) (*models.User, error) {
	ldapUser, err := s.ldapService.Authenticate(username, password)
	if err != nil {
		return nil, response.NewAuthentication("invalid username or password")
	}

	var user models.User
	err = s.db.Where("username = ?", ldapUser.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Username: ldapUser.Username,
			Email:    ldapUser.Email,
			Role:     models.RoleUser,
			Status:   models.StatusActive,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		s.joinDefaultWorkspace(&user)
	} else if err != nil {
		return nil, err
	}

	if user.Status != models.StatusActive {
		return nil, response.NewAuthentication("user is disabled")
	}

	if ldapUser.Email != "" && ldapUser.Email != user.Email {
		user.Email = ldapUser.Email
		s.db.Save(&user)
	}
	return &user, nil
}

// joinDefaultWorkspace adds a freshly created user to the configured
// default workspace. Non-fatal: login must succeed even when this fails.
func (s *AuthService) joinDefaultWorkspace(user *models.User) {
	workspaceID := s.authConfig.DefaultWorkspaceID
	if workspaceID == 0 {
		return
	}
	if err := s.workspaces.AddMember(workspaceID, user.ID); err != nil {
		logger.Warnf("Failed to add user %d to default workspace %d: %v", user.ID, workspaceID, err)
	}
}

// Register creates a local user account and joins it to the default
// workspace (best effort).
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, response.NewConflict("username already taken")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: req.Username,
		Password: hashed,
		Email:    req.Email,
		Role:     models.RoleUser,
		Status:   models.StatusActive,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	s.joinDefaultWorkspace(&user)
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// EnsureSuperadmin seeds the superadmin account on first startup.
func (s *AuthService) EnsureSuperadmin() (*models.User, error) {
	var user models.User
	err := s.db.Where("role = ?", models.RoleSuperadmin).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(s.authConfig.AdminPassword)
	if err != nil {
		return nil, err
	}

	user = models.User{
		Username: "admin",
		Password: hashed,
		Role:     models.RoleSuperadmin,
		Status:   models.StatusActive,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	logger.Info().Msg("Created default superadmin account")
	LogInfo("auth", "Seed", "created default superadmin account", nil, "", "", nil)
	return &user, nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (s *AuthService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return response.NewNotFound("user not found")
	}

	if !utils.CheckPassword(req.OldPassword, user.Password) {
		return response.NewValidation("incorrect old password")
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.db.Save(&user).Error
}
