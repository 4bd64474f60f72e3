package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/erp_backend/config"
	"bitbucket.org/mmdatafocus/erp_backend/handlers"
	"bitbucket.org/mmdatafocus/erp_backend/middlewares"
	"bitbucket.org/mmdatafocus/erp_backend/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// customErrorLogger logs only requests that accumulated gin errors.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func registerRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	api.POST("/auth/login", handlers.Login)
	api.POST("/auth/register", handlers.Register)

	protected := api.Group("")
	protected.Use(middlewares.RequireUser())

	protected.GET("/auth/me", handlers.Me)

	protected.POST("/categories", handlers.CreateCategory)
	protected.GET("/categories", handlers.ListCategories)

	protected.POST("/products", handlers.CreateProduct)
	protected.GET("/products", handlers.ListProducts)
	protected.GET("/products/:id", handlers.GetProduct)
	protected.PUT("/products/:id", handlers.UpdateProduct)
	protected.DELETE("/products/:id", handlers.DeactivateProduct)
	protected.GET("/products/:id/movements", handlers.ListProductMovements)
	protected.POST("/stock-adjustments", handlers.CreateStockAdjustment)

	protected.POST("/customers", handlers.CreateCustomer)
	protected.GET("/customers", handlers.ListCustomers)
	protected.PUT("/customers/:id", handlers.UpdateCustomer)

	protected.POST("/sales-orders", handlers.CreateSalesOrder)
	protected.GET("/sales-orders", handlers.ListSalesOrders)
	protected.GET("/sales-orders/:id", handlers.GetSalesOrder)

	protected.POST("/suppliers", handlers.CreateSupplier)
	protected.GET("/suppliers", handlers.ListSuppliers)
	protected.PUT("/suppliers/:id", handlers.UpdateSupplier)

	protected.POST("/purchase-orders", handlers.CreatePurchaseOrder)
	protected.GET("/purchase-orders", handlers.ListPurchaseOrders)
	protected.GET("/purchase-orders/:id", handlers.GetPurchaseOrder)
	protected.POST("/purchase-orders/:id/receive", handlers.ReceiveGoods)
	protected.GET("/goods-receipts", handlers.ListGoodsReceipts)

	protected.POST("/cash-accounts", handlers.CreateCashAccount)
	protected.GET("/cash-accounts", handlers.ListCashAccounts)
	protected.PUT("/cash-accounts/:id", handlers.UpdateCashAccount)
	protected.DELETE("/cash-accounts/:id", handlers.DeactivateCashAccount)

	protected.POST("/transactions", handlers.CreateJournalEntry)
	protected.GET("/transactions", handlers.ListJournalEntries)
	protected.GET("/finance/summary", handlers.GetFinanceSummary)
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so the platform considers the revision
	// healthy. Until the database is ready, app endpoints return 503.
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production an explicit allowlist is required via CORS_ALLOWED_ORIGINS
	// (comma-separated); unset means deny all. Elsewhere allow everything.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.AuthMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	handlers.RegisterValidations()
	registerRoutes(r)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running migrations as
	// a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	// Row locks carry the correctness burden; READ COMMITTED avoids gap-lock
	// deadlocks between concurrent order transactions.
	if err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error; err != nil {
		logger.WithFields(logrus.Fields{"field": "database"}).Warn("failed to set isolation level: " + err.Error())
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/api/v1")
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}
