package main

import (
	"os"
	"strconv"
	"time"

	"creditdesk/internal/database"
	"creditdesk/internal/handler"
	"creditdesk/internal/middleware"
	"creditdesk/internal/ocr"
	"creditdesk/internal/rbac"
	"creditdesk/internal/repository"
	"creditdesk/internal/service"
	"creditdesk/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Credit & Bill Management API
// @version         1.0
// @description     Role-based backend for bills, credit transactions, deliveries and OCR-assisted verification.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		logrus.Info("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "postgres")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		logrus.WithError(err).Fatal("Database connection failed")
	}
	logrus.Info("Connected to PostgreSQL successfully.")

	// Immutable permission mapping, plus DB rows for reporting
	rbacCfg := rbac.Default()
	if err := rbac.Seed(db, rbacCfg); err != nil {
		logrus.WithError(err).Warn("Failed to seed role/permission rows")
	}

	secret := middleware.GetJWTSecret()
	mw := middleware.New(rbacCfg, secret)

	// OCR engine: manual-entry fallback when no service is configured
	var engine ocr.Engine = ocr.Disabled{}
	if ocrURL := os.Getenv("OCR_SERVICE_URL"); ocrURL != "" {
		timeout := time.Duration(envIntOr("OCR_TIMEOUT_SECONDS", 15)) * time.Second
		engine = ocr.NewHTTPEngine(ocrURL, timeout)
		logrus.WithField("url", ocrURL).Info("OCR service configured")
	} else {
		logrus.Info("OCR_SERVICE_URL not set; bills follow the manual verification path")
	}

	tolerance := ocr.DefaultAmountTolerance
	if raw := os.Getenv("OCR_AMOUNT_TOLERANCE"); raw != "" {
		if parsed, parseErr := decimal.NewFromString(raw); parseErr == nil && parsed.IsPositive() {
			tolerance = parsed
		}
	}
	dueDays := envIntOr("CREDIT_DUE_DAYS", service.DefaultCreditDueDays)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	billRepo := repository.NewBillRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	salesmanRepo := repository.NewSalesmanRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)

	auditService := service.NewAuditService(auditRepo)
	userService := service.NewUserService(userRepo, auditService, rbacCfg, secret)
	creditService := service.NewCreditService(creditRepo, vendorRepo, auditService, txManager, wsHub, dueDays)
	billService := service.NewBillService(billRepo, verificationRepo, vendorRepo, deliveryRepo,
		creditService, auditService, txManager, engine, wsHub, tolerance)
	vendorService := service.NewVendorService(vendorRepo, auditService)
	salesmanService := service.NewSalesmanService(salesmanRepo, auditService)
	deliveryService := service.NewDeliveryService(deliveryRepo, auditService)
	exportService := service.NewExportService(billService, creditService, auditService)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService, mw)
	billHandler := handler.NewBillHandler(billService, mw)
	creditHandler := handler.NewCreditHandler(creditService, mw)
	vendorHandler := handler.NewVendorHandler(vendorService, mw)
	salesmanHandler := handler.NewSalesmanHandler(salesmanService, mw)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService, mw)
	auditHandler := handler.NewAuditHandler(auditService, mw)
	exportHandler := handler.NewExportHandler(exportService, mw)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint for verification alerts
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, secret, rbacCfg)
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	billHandler.RegisterRoutes(router.Group(""))
	creditHandler.RegisterRoutes(router.Group(""))
	vendorHandler.RegisterRoutes(router.Group(""))
	salesmanHandler.RegisterRoutes(router.Group(""))
	deliveryHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	exportHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")

	logrus.Infof("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.WithError(err).Fatal("Server failed")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
