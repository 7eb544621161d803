package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/educonnectt/educonnect-api/internal/handler"
	"github.com/educonnectt/educonnect-api/internal/middleware"
	"github.com/educonnectt/educonnect-api/internal/models"
	"github.com/educonnectt/educonnect-api/internal/repository"
	"github.com/educonnectt/educonnect-api/internal/service"
	"github.com/educonnectt/educonnect-api/pkg/config"
	"github.com/educonnectt/educonnect-api/pkg/logger"
	"github.com/educonnectt/educonnect-api/pkg/middleware/cors"
	"github.com/educonnectt/educonnect-api/pkg/middleware/requestid"
)

// Dependencies bundles everything the router needs to wire routes.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Auth    *service.AuthService
	Metrics *service.MetricsService
	Staff   *repository.StaffRepository

	AuthHandler       *handler.AuthHandler
	StudentHandler    *handler.StudentHandler
	TeacherHandler    *handler.TeacherHandler
	SubjectHandler    *handler.SubjectHandler
	PaymentHandler    *handler.PaymentHandler
	MessageHandler    *handler.MessageHandler
	AssignmentHandler *handler.AssignmentHandler
	DashboardHandler  *handler.DashboardHandler
	FileHandler       *handler.FileHandler
	MetricsHandler    *handler.MetricsHandler
}

// New builds the gin engine with middleware and the full route table.
func New(deps Dependencies) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestid.Middleware())
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(cors.New(deps.Config.CORS.AllowedOrigins))
	engine.Use(middleware.Timeout(deps.Config.RequestTimeout))
	engine.Use(middleware.Metrics(deps.Metrics))

	engine.GET("/health", deps.MetricsHandler.Health)
	engine.GET("/ready", deps.MetricsHandler.Ready)
	engine.GET("/metrics", deps.MetricsHandler.Prometheus)

	if deps.Config.Env != config.EnvProduction {
		engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := engine.Group(deps.Config.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/students/register", deps.AuthHandler.RegisterStudent)
		auth.POST("/teachers/register", deps.AuthHandler.RegisterTeacher)
		auth.POST("/students/login", deps.AuthHandler.LoginStudent)
		auth.POST("/teachers/login", deps.AuthHandler.LoginTeacher)
		auth.POST("/staff/login", deps.AuthHandler.LoginStaff)
	}

	// The signed token is the authorization; no session is required.
	api.GET("/files", deps.FileHandler.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(deps.Auth))

	staffOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleQAO)

	subjects := authed.Group("/subjects")
	{
		subjects.GET("", deps.SubjectHandler.List)
		subjects.GET("/:id", deps.SubjectHandler.Get)
		subjects.GET("/:id/members", staffOnly, deps.SubjectHandler.Members)
		subjects.POST("", staffOnly, deps.SubjectHandler.Create)
		subjects.PUT("/:id", staffOnly, deps.SubjectHandler.Update)
		subjects.PATCH("/:id/progress", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin, models.RoleQAO), deps.SubjectHandler.UpdateProgress)
		subjects.DELETE("/:id", staffOnly, deps.SubjectHandler.Delete)
	}

	payments := authed.Group("/payments")
	{
		payments.POST("", middleware.RequireRoles(models.RoleStudent), deps.PaymentHandler.Submit)
		payments.GET("/pending", staffOnly, deps.PaymentHandler.ListPending)
		payments.POST("/:id/review", staffOnly, deps.PaymentHandler.Review)
		payments.GET("/:id/screenshot-url", staffOnly, deps.PaymentHandler.ScreenshotURL)
	}

	students := authed.Group("/students")
	{
		students.GET("", staffOnly, deps.StudentHandler.List)
		students.GET("/:id", middleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleQAO)), deps.StudentHandler.Get)
		students.GET("/:id/subjects", middleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleQAO)), deps.StudentHandler.Subjects)
		students.GET("/:id/payments", middleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleQAO)), deps.PaymentHandler.StudentPayments)
		students.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), deps.StudentHandler.Delete)
	}

	teachers := authed.Group("/teachers")
	{
		teachers.GET("", staffOnly, deps.TeacherHandler.List)
		teachers.GET("/:id", middleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleQAO)), deps.TeacherHandler.Get)
		teachers.POST("/:id/activate", staffOnly, deps.TeacherHandler.Activate)
		teachers.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), deps.TeacherHandler.Delete)
	}

	messages := authed.Group("/messages")
	{
		messages.POST("", deps.MessageHandler.Send)
		messages.POST("/broadcast", middleware.RequireQAO(deps.Staff), deps.MessageHandler.Broadcast)
		messages.GET("/inbox", deps.MessageHandler.Inbox)
		messages.GET("/sent", deps.MessageHandler.Sent)
	}

	assignments := authed.Group("/assignments")
	{
		assignments.POST("", middleware.RequireRoles(models.RoleTeacher), deps.AssignmentHandler.Create)
		assignments.POST("/:id/submit", middleware.RequireRoles(models.RoleStudent), deps.AssignmentHandler.Submit)
		assignments.GET("", deps.AssignmentHandler.List)
	}

	admin := authed.Group("/admin", staffOnly)
	{
		admin.GET("/overview", deps.DashboardHandler.Overview)
		admin.GET("/exports/:report", deps.DashboardHandler.Export)
	}

	return engine
}
