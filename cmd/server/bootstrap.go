package main

import (
	"github.com/promptadmin/backend/internal/config"
	"github.com/promptadmin/backend/internal/handlers"
	"github.com/promptadmin/backend/internal/models"
	"github.com/promptadmin/backend/internal/services"
	"github.com/promptadmin/backend/internal/utils"
	"github.com/promptadmin/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the
// application.
type appServices struct {
	cfg              *config.Config
	authHandler      *handlers.AuthHandler
	userHandler      *handlers.UserHandler
	workspaceHandler *handlers.WorkspaceHandler
	projectHandler   *handlers.ProjectHandler
	promptHandler    *handlers.PromptHandler
	modelHandler     *handlers.ModelHandler
	systemLogHandler *handlers.SystemLogHandler
	healthHandler    *handlers.HealthHandler
	logCleanup       *services.LogCleanupScheduler
	auditLogService  *services.SystemLogService
}

// bootstrap initializes database, seed data, schedulers and handlers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	services.InitSystemLogger(db)

	logCleanup := services.NewLogCleanupScheduler(db, cfg.Auth.LogRetentionDays)
	logCleanup.Start()

	// Seed the superadmin and the default workspace it administers.
	authService := services.NewAuthService(db, cfg)
	admin, err := authService.EnsureSuperadmin()
	if err != nil {
		logger.Fatalf("Failed to ensure superadmin: %v", err)
	}
	if _, err := services.NewWorkspaceService(db).EnsureDefaultWorkspace(admin.ID); err != nil {
		logger.Warn().Err(err).Msg("Failed to ensure default workspace")
	}

	return &appServices{
		cfg:              cfg,
		authHandler:      handlers.NewAuthHandler(db, cfg),
		userHandler:      handlers.NewUserHandler(db),
		workspaceHandler: handlers.NewWorkspaceHandler(db),
		projectHandler:   handlers.NewProjectHandler(db),
		promptHandler:    handlers.NewPromptHandler(db),
		modelHandler:     handlers.NewModelHandler(db),
		systemLogHandler: handlers.NewSystemLogHandler(db),
		healthHandler:    handlers.NewHealthHandler(db),
		logCleanup:       logCleanup,
		auditLogService:  services.NewSystemLogService(db),
	}
}

// shutdown gracefully stops background schedulers.
func (s *appServices) shutdown() {
	s.logCleanup.Stop()
	logger.Info().Msg("All schedulers stopped")
}
