package router

import (
	"time"

	"stockatelier/internal/agent"
	"stockatelier/internal/config"
	"stockatelier/internal/filestore"
	"stockatelier/internal/handler"
	"stockatelier/internal/middleware"
	"stockatelier/internal/model"
	"stockatelier/internal/repository"
	"stockatelier/internal/service"
	"stockatelier/internal/session"

	"github.com/gin-gonic/gin"
	cache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB
func New(cfg *config.Config, db *gorm.DB, files *filestore.Store, sessions *session.Store) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.BodyLimit(cfg.MaxUploadMB << 20))

	// ── Infrastructure ───────────────────────────────────────────────────────
	agentClient := agent.NewClient(cfg.AgentURL, cfg.AgentToken, time.Duration(cfg.AgentTimeoutSeconds)*time.Second)
	agentRegistry := agent.NewRegistry()
	localOpener := &agent.LocalOpener{Enabled: cfg.EnableLocalOpen}
	dashCache := cache.New(30*time.Second, time.Minute)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	machineRepo := repository.NewMachineRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo)
	productSvc := service.NewProductService(productRepo)
	machineSvc := service.NewMachineService(machineRepo, files)
	maintenanceSvc := service.NewMaintenanceService(machineRepo)
	dashboardSvc := service.NewDashboardService(productRepo, machineRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, sessions, cfg.Env == "production")
	productsH := handler.NewProductsHandler(productSvc)
	machinesH := handler.NewMachinesHandler(machineSvc)
	machineFilesH := handler.NewMachineFilesHandler(machineSvc)
	maintenancesH := handler.NewMaintenancesHandler(maintenanceSvc)
	agentH := handler.NewAgentHandler(agentClient, agentRegistry, localOpener, cfg.AgentURL)
	dashboardH := handler.NewDashboardHandler(dashboardSvc, cfg.ReportDir)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db))
	r.Static(filestore.URLPrefix, files.Root())

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/logout", authH.Logout)
		auth.GET("/check", authH.Check)
	}

	// The desktop agent authenticates with its shared token, not a session.
	agentPub := r.Group("/api/agent", middleware.AgentToken(cfg.AgentToken))
	{
		agentPub.POST("/register", agentH.Register)
		agentPub.POST("/heartbeat", agentH.Heartbeat)
	}

	// Protected routes
	api := r.Group("/api", middleware.SessionAuth(sessions))
	{
		api.GET("/auth/permissions", authH.Permissions)

		// Stock items: everyone reads, operators mutate, admins delete.
		api.GET("/products", productsH.List)
		api.GET("/products/:id", productsH.Get)
		api.POST("/products", middleware.RequireRole(model.RoleOperator), productsH.Create)
		api.PUT("/products/:id", middleware.RequireRole(model.RoleOperator), productsH.Update)
		api.PATCH("/products/:id/quantity", middleware.RequireRole(model.RoleOperator), productsH.PatchQuantity)
		api.DELETE("/products/:id", middleware.RequireRole(model.RoleAdmin), productsH.Delete)

		api.GET("/machines", machinesH.List)
		api.GET("/machines/:id", machinesH.Get)
		api.POST("/machines", middleware.RequireRole(model.RoleOperator), machinesH.Create)
		api.PUT("/machines/:id", middleware.RequireRole(model.RoleOperator), machinesH.Update)
		api.DELETE("/machines/:id", middleware.RequireRole(model.RoleAdmin), machinesH.Delete)

		api.GET("/machines/:id/files", machineFilesH.List)
		api.POST("/machines/:id/files", middleware.RequireRole(model.RoleOperator), machineFilesH.Upload)
		api.DELETE("/machines/files/:fileId", middleware.RequireRole(model.RoleOperator), machineFilesH.Delete)

		api.GET("/machines/:id/maintenances", maintenancesH.List)
		api.POST("/machines/:id/maintenances", middleware.RequireRole(model.RoleOperator), maintenancesH.Create)
		api.PUT("/machines/:id/maintenances/:mid", middleware.RequireRole(model.RoleOperator), maintenancesH.Update)
		api.DELETE("/machines/:id/maintenances/:mid", middleware.RequireRole(model.RoleAdmin), maintenancesH.Delete)

		api.GET("/agent/status", agentH.Status)
		api.POST("/agent/open-solidworks", agentH.OpenSolidworks)
		if cfg.EnableLocalOpen {
			api.POST("/open-file", agentH.OpenLocal)
		}

		api.GET("/dashboard/stats", middleware.Cache(dashCache, 30*time.Second), dashboardH.Stats)
		api.GET("/dashboard/report", middleware.RequireRole(model.RoleOperator), dashboardH.Report)
	}

	return r
}
