package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/fortidesk-api/internal/handler"
	"github.com/noah-isme/fortidesk-api/internal/middleware"
	"github.com/noah-isme/fortidesk-api/internal/models"
	"github.com/noah-isme/fortidesk-api/pkg/config"
	"github.com/noah-isme/fortidesk-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/fortidesk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/fortidesk-api/pkg/middleware/requestid"
)

type routeHandlers struct {
	auth       *handler.AuthHandler
	compliance *handler.ComplianceHandler
	reports    *handler.ReportHandler
	athletes   *handler.AthleteHandler
	staff      *handler.StaffHandler
	teams      *handler.TeamHandler
	documents  *handler.DocumentHandler
	reminders  *handler.ReminderHandler
	training   *handler.TrainingHandler
	metrics    *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, observer middleware.RequestObserver, tokens middleware.TokenValidator, h routeHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(observer))

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.POST("/auth/login", h.auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))

	staffOnly := middleware.RequireRoles(middleware.Staff...)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	complianceGroup := secured.Group("/compliance", staffOnly)
	complianceGroup.GET("/dashboard", h.compliance.Dashboard)
	complianceGroup.GET("/alerts/:subjectType", h.compliance.Alerts)

	secured.GET("/reports/:report", staffOnly, h.reports.Report)

	athletes := secured.Group("/athletes", staffOnly)
	athletes.GET("", h.athletes.List)
	athletes.POST("", middleware.Audit(logr, "create", "athlete"), h.athletes.Create)
	athletes.GET("/:id", h.athletes.Get)
	athletes.PUT("/:id", middleware.Audit(logr, "update", "athlete"), h.athletes.Update)
	athletes.DELETE("/:id", middleware.Audit(logr, "deactivate", "athlete"), h.athletes.Delete)
	athletes.GET("/:id/guardians", h.athletes.ListGuardians)
	athletes.POST("/:id/guardians", middleware.Audit(logr, "create", "guardian"), h.athletes.CreateGuardian)
	athletes.PUT("/:id/guardians/:guardianId", middleware.Audit(logr, "update", "guardian"), h.athletes.UpdateGuardian)
	athletes.GET("/:id/insurances", h.athletes.ListInsurances)
	athletes.POST("/:id/insurances", middleware.Audit(logr, "create", "insurance"), h.athletes.CreateInsurance)
	athletes.PUT("/:id/insurances/:insuranceId", middleware.Audit(logr, "update", "insurance"), h.athletes.UpdateInsurance)

	staffGroup := secured.Group("/staff", staffOnly)
	staffGroup.GET("", h.staff.List)
	staffGroup.POST("", adminOnly, middleware.Audit(logr, "create", "staff"), h.staff.Create)
	staffGroup.GET("/:id", h.staff.Get)
	staffGroup.PUT("/:id", adminOnly, middleware.Audit(logr, "update", "staff"), h.staff.Update)
	staffGroup.DELETE("/:id", adminOnly, middleware.Audit(logr, "deactivate", "staff"), h.staff.Delete)

	teams := secured.Group("/teams")
	teams.GET("", h.teams.List)
	teams.GET("/:id", h.teams.Get)
	teams.POST("", adminOnly, middleware.Audit(logr, "create", "team"), h.teams.Create)
	teams.PUT("/:id", adminOnly, middleware.Audit(logr, "update", "team"), h.teams.Update)

	documents := secured.Group("/documents", staffOnly)
	documents.GET("", h.documents.List)
	documents.POST("", middleware.Audit(logr, "create", "document"), h.documents.Create)
	documents.GET("/:id", h.documents.Get)
	documents.DELETE("/:id", middleware.Audit(logr, "deactivate", "document"), h.documents.Delete)

	reminders := secured.Group("/reminders", adminOnly)
	reminders.GET("/pending", h.reminders.Pending)
	reminders.POST("/dispatch", middleware.Audit(logr, "dispatch", "reminder_run"), h.reminders.Dispatch)

	training := secured.Group("/training-sessions")
	training.GET("", h.training.List)
	training.GET("/:id", h.training.Get)
	training.POST("", staffOnly, middleware.Audit(logr, "create", "training_session"), h.training.Create)
	training.POST("/recurring", staffOnly, middleware.Audit(logr, "generate", "training_session"), h.training.CreateRecurring)
	training.PUT("/:id", staffOnly, middleware.Audit(logr, "update", "training_session"), h.training.Update)
	training.POST("/:id/cancel", staffOnly, middleware.Audit(logr, "cancel", "training_session"), h.training.Cancel)

	return r
}
