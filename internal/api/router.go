package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/config"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/api/handler"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/api/middleware"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/service"
)

type Router struct {
	authHandler      *handler.AuthHandler
	accountHandler   *handler.AccountHandler
	toolHandler      *handler.ToolHandler
	planHandler      *handler.PlanHandler
	adminHandler     *handler.AdminHandler
	websocketHandler *handler.WebSocketHandler
	accounts         *service.AccountService
	entitlements     *service.EntitlementService
	cfg              *config.Config
	log              *slog.Logger
}

func NewRouter(
	authHandler *handler.AuthHandler,
	accountHandler *handler.AccountHandler,
	toolHandler *handler.ToolHandler,
	planHandler *handler.PlanHandler,
	adminHandler *handler.AdminHandler,
	websocketHandler *handler.WebSocketHandler,
	accounts *service.AccountService,
	entitlements *service.EntitlementService,
	cfg *config.Config,
	log *slog.Logger,
) *Router {
	return &Router{
		authHandler:      authHandler,
		accountHandler:   accountHandler,
		toolHandler:      toolHandler,
		planHandler:      planHandler,
		adminHandler:     adminHandler,
		websocketHandler: websocketHandler,
		accounts:         accounts,
		entitlements:     entitlements,
		cfg:              cfg,
		log:              log,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(r.log))
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		api.GET("/ws", r.websocketHandler.Handle)

		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		api.GET("/plans", r.planHandler.List)

		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			account := authenticated.Group("/account")
			{
				account.GET("", r.accountHandler.GetProfile)
				account.GET("/entitlements", r.accountHandler.GetEntitlements)
				account.GET("/usage/events", r.accountHandler.ListUsageEvents)
			}

			tools := authenticated.Group("/tools/:tool")
			{
				tools.GET("/access", r.toolHandler.CheckAccess)
				tools.POST("/usage", middleware.ToolAccess(r.entitlements), r.toolHandler.RecordUsage)
			}

			admin := authenticated.Group("/admin/accounts/:id")
			admin.Use(middleware.RequireAdmin(r.accounts))
			{
				admin.GET("", r.adminHandler.GetAccount)
				admin.GET("/history", r.adminHandler.GetHistory)
				admin.POST("/suspend", r.adminHandler.Suspend)
				admin.POST("/reactivate", r.adminHandler.Reactivate)
				admin.PUT("/plan", r.adminHandler.ChangePlan)
				admin.PUT("/status", r.adminHandler.SetStatus)
				admin.POST("/trial/extend", r.adminHandler.ExtendTrial)
			}
		}
	}

	return engine
}
