// Package router assembles the gin engine and registers the API routes.
package router

import (
	"net/http"

	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/auth"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/config"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/logger"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/persistence"
	"github.com/kincat201/syncargo-be-sub000/internal/interfaces/http/handler"
	"github.com/kincat201/syncargo-be-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups the API handlers wired into the router
type Handlers struct {
	Payable    *handler.PayableHandler
	Receivable *handler.ReceivableHandler
}

// New builds the gin engine with the full middleware stack and all routes
// registered under /api/v1.
func New(cfg *config.Config, log *zap.Logger, db *persistence.Database, jwtService *auth.JWTService, handlers Handlers) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return nil, err
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", healthHandler(db))

	api := engine.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))

	registerFinanceRoutes(api, handlers)

	return engine, nil
}

func registerFinanceRoutes(api *gin.RouterGroup, handlers Handlers) {
	finance := api.Group("/finance")

	payables := finance.Group("/payables")
	payables.POST("", handlers.Payable.Create)
	payables.GET("", handlers.Payable.List)
	payables.GET("/:id", handlers.Payable.Get)
	payables.POST("/:id/approval", handlers.Payable.Approval)
	payables.PUT("/:id/revise", handlers.Payable.Revise)
	payables.POST("/:id/payments", handlers.Payable.RecordPayment)
	payables.DELETE("/:id/payments/:paymentID", handlers.Payable.DeletePayment)
	payables.POST("/:id/remittance", handlers.Payable.SendRemittance)

	invoices := finance.Group("/invoices")
	invoices.POST("", handlers.Receivable.Create)
	invoices.GET("", handlers.Receivable.List)
	invoices.GET("/:id", handlers.Receivable.Get)
	invoices.POST("/:id/approval", handlers.Receivable.Approval)
	invoices.PUT("/:id/revise", handlers.Receivable.Revise)
	invoices.POST("/:id/payments", handlers.Receivable.RecordPayment)
	invoices.DELETE("/:id/payments/:paymentID", handlers.Receivable.DeletePayment)
	invoices.PUT("/:id/edit", handlers.Receivable.Edit)
	invoices.POST("/:id/edit/approval", handlers.Receivable.EditApproval)
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			if err := db.Ping(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  "database unreachable",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
