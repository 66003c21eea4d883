package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/glowmart/beauty-shop-api/internal/config"
	"github.com/glowmart/beauty-shop-api/internal/handler"
	"github.com/glowmart/beauty-shop-api/internal/middleware"
	"github.com/glowmart/beauty-shop-api/internal/model"
	"github.com/glowmart/beauty-shop-api/internal/repository"
	"github.com/glowmart/beauty-shop-api/internal/service"
	"github.com/glowmart/beauty-shop-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	cartRepo := repository.NewCartRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)
	reviewRepo := repository.NewReviewRepository(dbPool)
	wishlistRepo := repository.NewWishlistRepository(dbPool)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.Auth.BcryptCost, cfg.Auth.MinPasswordLength)
	userSvc := service.NewUserService(userRepo, authSvc, cfg.Auth.BcryptCost, cfg.Auth.MinPasswordLength)
	productSvc := service.NewProductService(productRepo, redisClient)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, cartRepo, productRepo, amqpCh)
	reviewSvc := service.NewReviewService(reviewRepo, productSvc)
	wishlistSvc := service.NewWishlistService(wishlistRepo, productSvc)

	// Handlers
	authH := handler.NewAuthHandler(authSvc, userSvc)
	userH := handler.NewUserHandler(userSvc, cfg.API)
	productH := handler.NewProductHandler(productSvc, cfg.API)
	cartH := handler.NewCartHandler(cartSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	reviewH := handler.NewReviewHandler(reviewSvc, cfg.API)
	wishlistH := handler.NewWishlistHandler(wishlistSvc)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Worker
	fulfilment := worker.NewFulfilmentWorker(amqpCh, orderRepo, productRepo, redisClient, log)

	// Router
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	authed := middleware.Auth(cfg.JWT.Secret)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.GET("/me", authed, authH.Me)

		users := v1.Group("/users", authed)
		users.PUT("/profile", userH.UpdateProfile)
		users.PUT("/password", userH.ChangePassword)

		products := v1.Group("/products")
		products.GET("", productH.List)
		products.GET("/featured", productH.Featured)
		products.GET("/categories", productH.Categories)
		products.GET("/:id", productH.Get)
		products.GET("/:id/reviews", reviewH.ListPublic)

		products.POST("/:id/reviews", authed, reviewH.Submit)
		products.GET("/:id/reviews/mine", authed, reviewH.CheckMine)

		catalogAdmin := products.Group("", authed, adminOnly)
		catalogAdmin.POST("", productH.Create)
		catalogAdmin.PUT("/:id", productH.Update)
		catalogAdmin.DELETE("/:id", productH.Delete)

		cart := v1.Group("/cart", authed)
		cart.GET("", cartH.Get)
		cart.POST("/items", cartH.AddItem)
		cart.PUT("/items/:itemId", cartH.UpdateItem)
		cart.DELETE("/items/:itemId", cartH.RemoveItem)
		cart.DELETE("", cartH.Clear)

		orders := v1.Group("/orders")
		orders.POST("/quote", orderH.Quote)
		orders.POST("", authed, orderH.Create)
		orders.GET("", authed, orderH.ListMine)
		orders.GET("/:id", authed, orderH.Get)

		wishlist := v1.Group("/wishlist", authed)
		wishlist.GET("", wishlistH.List)
		wishlist.GET("/count", wishlistH.Count)
		wishlist.GET("/contains/:productId", wishlistH.Contains)
		wishlist.POST("", wishlistH.Add)
		wishlist.DELETE("/:productId", wishlistH.Remove)
		wishlist.DELETE("", wishlistH.Clear)

		admin := v1.Group("/admin", authed, adminOnly)
		{
			admin.GET("/orders", orderH.ListAll)
			admin.PATCH("/orders/:id/status", orderH.UpdateStatus)
			admin.PATCH("/orders/:id/paid", orderH.MarkPaid)

			admin.GET("/reviews", reviewH.ListAdmin)
			admin.PATCH("/reviews/:id/status", reviewH.Moderate)
			admin.PATCH("/reviews/:id/visibility", reviewH.SetVisibility)
			admin.DELETE("/reviews/:id", reviewH.Delete)

			admin.GET("/customers", userH.ListCustomers)
			admin.GET("/customers/:id", userH.GetCustomer)
			admin.PATCH("/customers/:id/status", userH.SetCustomerStatus)
			admin.POST("/customers/:id/reset-password", userH.ResetCustomerPassword)
			admin.DELETE("/customers/:id", userH.DeleteCustomer)

			super := admin.Group("/admins")
			super.GET("", userH.ListAdmins)
			super.GET("/:id", userH.GetAdmin)
			super.POST("", userH.CreateAdmin)
			super.PATCH("/:id", userH.UpdateAdmin)
			super.PATCH("/:id/status", userH.SetAdminStatus)
			super.POST("/:id/reset-password", userH.ResetAdminPassword)
			super.DELETE("/:id", userH.DeleteAdmin)
		}
	}

	if err := fulfilment.Start(ctx); err != nil {
		log.Error("start fulfilment worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	fulfilment.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
