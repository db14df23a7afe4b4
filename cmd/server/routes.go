package main

import (
	"github.com/gin-gonic/gin"
	"github.com/promptadmin/backend/internal/middleware"
	"github.com/promptadmin/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Slow down credential stuffing on the public auth endpoints.
	loginLimiter := middleware.NewRateLimiter(5, 10)

	r.GET("/health", svc.healthHandler.Check)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth", loginLimiter.Middleware())
		{
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/register", svc.authHandler.Register)
			auth.GET("/config", svc.authHandler.GetAuthConfig)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		protected.Use(middleware.AuditLog(svc.auditLogService))
		{
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			protected.GET("/users/list", svc.userHandler.List)

			protected.GET("/workspaces/list", svc.workspaceHandler.List)
			protected.GET("/workspaces/members/:id", svc.workspaceHandler.ListMembers)
			protected.POST("/workspaces/members/:id/add", svc.workspaceHandler.AddMembers)
			protected.POST("/workspaces/members/:id/remove", svc.workspaceHandler.RemoveMembers)
			protected.POST("/workspaces/members/:id/update", svc.workspaceHandler.UpdateMembers)

			protected.GET("/projects/list", svc.projectHandler.List)
			protected.GET("/projects/:id", svc.projectHandler.Get)
			protected.POST("/projects/create", svc.projectHandler.Create)
			protected.POST("/projects/:id/update", svc.projectHandler.Update)
			protected.POST("/projects/:id/delete", svc.projectHandler.Delete)

			protected.GET("/prompts/list", svc.promptHandler.List)
			protected.GET("/prompts/:id", svc.promptHandler.Get)
			protected.POST("/prompts/create", svc.promptHandler.Create)
			protected.POST("/prompts/:id/update", svc.promptHandler.Update)
			protected.POST("/prompts/:id/update-basic-info", svc.promptHandler.UpdateBasicInfo)
			protected.POST("/prompts/:id/delete", svc.promptHandler.Delete)
			protected.GET("/prompts/:id/history/list", svc.promptHandler.HistoryList)
			protected.GET("/prompts/:id/history/:version", svc.promptHandler.HistoryVersion)

			protected.GET("/models/list", svc.modelHandler.List)
			protected.POST("/models/call", svc.modelHandler.Call)
		}

		// Superadmin-only routes
		admin := api.Group("", middleware.AuthRequired(), middleware.SuperadminRequired())
		admin.Use(middleware.AuditLog(svc.auditLogService))
		{
			admin.POST("/workspaces/create", svc.workspaceHandler.Create)
			admin.POST("/workspaces/:id/update", svc.workspaceHandler.Update)
			admin.POST("/workspaces/:id/delete", svc.workspaceHandler.Delete)

			admin.POST("/models/create", svc.modelHandler.Create)
			admin.POST("/models/:id/update", svc.modelHandler.Update)
			admin.POST("/models/:id/delete", svc.modelHandler.Delete)

			admin.GET("/logs/list", svc.systemLogHandler.List)
		}
	}
}
