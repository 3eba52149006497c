package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/KanalKids/kanalkids_api/internal/cache"
	"github.com/KanalKids/kanalkids_api/internal/config"
	"github.com/KanalKids/kanalkids_api/internal/database"
	"github.com/KanalKids/kanalkids_api/internal/handler"
	"github.com/KanalKids/kanalkids_api/internal/middleware"
	"github.com/KanalKids/kanalkids_api/internal/repository"
	"github.com/KanalKids/kanalkids_api/internal/service"
	"github.com/KanalKids/kanalkids_api/internal/worker"
	"github.com/KanalKids/kanalkids_api/pkg/mailer"
	"github.com/KanalKids/kanalkids_api/pkg/midtrans"
	"github.com/KanalKids/kanalkids_api/pkg/rabbitmq"
)

// main is the application entrypoint for the KanalKids storefront API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting kanalkids api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize catalog cache
	catalogCache := cache.NewCatalogCache(redisClient)

	// 4. Initialize gateway clients
	paymentClient := midtrans.NewClient(midtrans.Config{
		BaseURL:   cfg.Payment.BaseURL,
		ServerKey: cfg.Payment.ServerKey,
	})

	mailClient := mailer.NewClient(mailer.Config{
		BaseURL: cfg.Mailer.BaseURL,
		APIKey:  cfg.Mailer.APIKey,
		From:    cfg.Mailer.From,
	})

	// Order events broker is optional; a nil publisher drops events.
	var publisher *rabbitmq.Publisher
	if cfg.AMQP.URL != "" {
		publisher, err = rabbitmq.NewPublisher(rabbitmq.Config{URL: cfg.AMQP.URL})
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq connection failed - order events disabled")
			publisher = nil
		} else {
			defer publisher.Close()
			log.Info().Msg("rabbitmq connected successfully")
		}
	}

	// 5. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewLinkCategoryRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userProductRepo := repository.NewUserProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	resetRepo := repository.NewPasswordResetRepository(db)

	// 6. Initialize services
	authSvc := service.NewAuthService(userRepo, resetRepo, mailClient, cfg.JWTSecret, cfg.BaseURL)
	adminAuthSvc := service.NewAdminAuthService(adminRepo, cfg.JWTSecret)
	catalogSvc := service.NewCatalogService(productRepo, categoryRepo, linkRepo, userProductRepo, catalogCache)
	managementSvc := service.NewCatalogManagementService(productRepo, categoryRepo, linkRepo, catalogCache)
	orderSvc := service.NewOrderService(orderRepo, productRepo, paymentClient, publisher, cfg.Order.ExpiryWindow)

	// Seed the backoffice account when configured. Duplicate seeds are fine.
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := adminAuthSvc.CreateAdmin(cfg.Admin.Email, cfg.Admin.Password, "Administrator"); err != nil {
			if !repository.IsUniqueViolation(err) {
				log.Warn().Err(err).Msg("admin account seed failed")
			}
		} else {
			log.Info().Str("email", cfg.Admin.Email).Msg("admin account seeded")
		}
	}

	uploadSvc, err := service.NewUploadService(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.APIKey,
		cfg.Cloudinary.APISecret,
		cfg.Cloudinary.Folder,
	)
	if err != nil {
		log.Warn().Err(err).Msg("cloudinary initialization failed - image uploads disabled")
	}

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:            handler.NewHealthHandler(),
		Auth:              handler.NewAuthHandler(authSvc),
		AdminAuth:         handler.NewAdminAuthHandler(adminAuthSvc),
		Product:           handler.NewProductHandler(catalogSvc),
		UserProduct:       handler.NewUserProductHandler(catalogSvc),
		Order:             handler.NewOrderHandler(orderSvc, authSvc),
		ProductManagement: handler.NewProductManagementHandler(managementSvc),
		AdminOrder:        handler.NewAdminOrderHandler(orderSvc),
	}
	if uploadSvc != nil {
		handlers.Upload = handler.NewUploadHandler(uploadSvc)
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(cfg.JWTSecret)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewPaymentSyncWorker(orderRepo, userProductRepo, paymentClient, publisher, cfg.Worker.PaymentSyncInterval).Start(ctx)
	go worker.NewOrderExpiryWorker(orderRepo, publisher, cfg.Worker.OrderExpiryInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health            *handler.HealthHandler
	Auth              *handler.AuthHandler
	AdminAuth         *handler.AdminAuthHandler
	Product           *handler.ProductHandler
	UserProduct       *handler.UserProductHandler
	Order             *handler.OrderHandler
	ProductManagement *handler.ProductManagementHandler
	AdminOrder        *handler.AdminOrderHandler
	Upload            *handler.UploadHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMw *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.Health)

	// Buyer authentication
	auth := router.Group("/v1/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/forgot-password", handlers.Auth.ForgotPassword)
		auth.POST("/reset-password", handlers.Auth.ResetPassword)
		auth.GET("/me", jwtMw.Handle(), handlers.Auth.Me)
		auth.PUT("/password", jwtMw.Handle(), handlers.Auth.ChangePassword)
	}

	// Storefront catalog (viewer-aware, works for anonymous visitors)
	products := router.Group("/v1/products")
	products.Use(jwtMw.Optional())
	{
		products.GET("", handlers.Product.ListProducts)
		products.GET("/:slug", handlers.Product.GetProduct)
	}

	// Orders
	orders := router.Group("/v1/orders")
	{
		// Create sits behind optional auth so anonymous buyers get the
		// register redirect instead of a bare 401.
		orders.POST("", jwtMw.Optional(), handlers.Order.CreateOrder)
		orders.GET("", jwtMw.Handle(), handlers.Order.ListOrders)
		orders.GET("/pending", jwtMw.Handle(), handlers.Order.PendingOrder)
	}

	// Purchased library
	userProducts := router.Group("/v1/user-products")
	userProducts.Use(jwtMw.Handle())
	{
		userProducts.GET("", handlers.UserProduct.ListUserProducts)
		userProducts.GET("/:id", handlers.UserProduct.GetUserProduct)
	}

	// Backoffice
	router.POST("/v1/admin/auth/login", handlers.AdminAuth.Login)

	admin := router.Group("/v1/admin")
	admin.Use(jwtMw.Admin())
	{
		admin.GET("/products", handlers.ProductManagement.ListProducts)
		admin.POST("/products", handlers.ProductManagement.CreateProduct)
		admin.GET("/products/:id", handlers.ProductManagement.GetProduct)
		admin.PUT("/products/:id", handlers.ProductManagement.UpdateProduct)
		admin.DELETE("/products/:id", handlers.ProductManagement.DeleteProduct)

		admin.POST("/products/:id/categories", handlers.ProductManagement.CreateCategory)
		admin.PUT("/categories/:id", handlers.ProductManagement.UpdateCategory)
		admin.DELETE("/categories/:id", handlers.ProductManagement.DeleteCategory)

		admin.POST("/categories/:id/links", handlers.ProductManagement.CreateLink)
		admin.PUT("/links/:id", handlers.ProductManagement.UpdateLink)
		admin.DELETE("/links/:id", handlers.ProductManagement.DeleteLink)

		admin.GET("/orders", handlers.AdminOrder.ListOrders)

		if handlers.Upload != nil {
			admin.POST("/uploads/image", handlers.Upload.UploadImage)
		}
	}
}

// setupLogger configures zerolog globally.
func setupLogger(env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}
