package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"ecommerce_backend/internal/api"        // Custom package for API handlers
	"ecommerce_backend/internal/config"     // Custom package for configuration
	"ecommerce_backend/internal/imagestore" // Custom package for the image store client
	"ecommerce_backend/internal/middleware" // Custom package for middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client for catalog read caching
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Setup the image store client with explicit credentials
	images, err := imagestore.NewCloudinary(cfg.CloudinaryURL)
	if err != nil {
		logrus.Fatalf("failed to configure image store: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/register", api.RegisterHandler(db))             // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(db, cfg.JWTSecret))    // Login endpoint
	authGroup.GET("/users", api.GetAllUsersDataHandler(db))          // Filtered public user listing
	authGroup.GET("/users/:id", api.GetUserByIDHandler(db))          // Single user lookup
	authGroup.GET("/user", api.GetAllUsersHandler(db))               // Full user listing
	authGroup.DELETE("/user/:id", api.DeleteUserHandler(db))         // User deletion endpoint

	// Profile routes (protected by JWT)
	authGroup.GET("/profile", middleware.JWTAuthMiddleware(cfg.JWTSecret), api.ProfileHandler())
	authGroup.PUT("/profile/:id", middleware.JWTAuthMiddleware(cfg.JWTSecret),
		api.EditProfileHandler(db, images, cfg.UserFolder()))

	// Admin user management (protected, admin only)
	authGroup.POST("/user", middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(db),
		api.CreateUserByAdminHandler(db, images, cfg.UserFolder()))
	authGroup.PUT("/user/:id", middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(db),
		api.UpdateUserByAdminHandler(db, images, cfg.UserFolder()))

	// Product catalog routes
	productGroup := r.Group("/product")
	productGroup.GET("", api.GetAllProductsHandler(db, redisClient))      // Catalog listing endpoint
	productGroup.GET("/:id", api.GetProductByIDHandler(db, redisClient))  // Product lookup endpoint
	productGroup.POST("", api.CreateProductHandler(db, redisClient, images, cfg.ProductFolder()))     // Product creation endpoint
	productGroup.PUT("/:id", api.UpdateProductHandler(db, redisClient, images, cfg.ProductFolder()))  // Product update endpoint
	productGroup.DELETE("/:id", api.DeleteProductHandler(db, redisClient))                            // Product deletion endpoint

	// Order routes
	orderGroup := r.Group("/order")
	orderGroup.GET("", api.GetAllOrdersHandler(db))                     // Order listing endpoint
	orderGroup.GET("/:id", api.GetOrderByIDHandler(db))                 // Order lookup endpoint
	orderGroup.POST("", api.CreateOrderHandler(db))                     // Order creation endpoint
	orderGroup.PUT("/:id", api.UpdateOrderHandler(db))                  // Order update endpoint
	orderGroup.PUT("/status/:id", api.UpdateOrderStatusHandler(db))     // Order status endpoint
	orderGroup.DELETE("/:id", api.DeleteOrderHandler(db))               // Order deletion endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
