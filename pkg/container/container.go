package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"productstore-backend/internal/config"
	infraCache "productstore-backend/internal/infrastructure/cache"
	"productstore-backend/internal/infrastructure/database"
	"productstore-backend/internal/infrastructure/storage"
	"productstore-backend/internal/session"
	"productstore-backend/pkg/jwt"

	"productstore-backend/internal/domains/user"
	userHandler "productstore-backend/internal/domains/user/handler"
	userRepo "productstore-backend/internal/domains/user/repository"
	userService "productstore-backend/internal/domains/user/service"

	productHandler "productstore-backend/internal/domains/product/handler"
	productRepo "productstore-backend/internal/domains/product/repository"
	productService "productstore-backend/internal/domains/product/service"
)

// Container holds the full dependency graph. Initialization order matters:
// config -> infrastructure -> session -> repositories -> services -> handlers.
type Container struct {
	// Infrastructure (singletons)
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient
	Storage    *storage.MinIOStorage
	JWTManager *jwt.Manager

	// Session state
	Sessions *session.Cache

	// User domain
	UserRepo    user.Repository
	UserService user.Service
	UserHandler *userHandler.UserHandler

	// Product domain
	ProductRepo    productRepo.Repository
	ProductManager *productService.Manager
	ProductHandler *productHandler.ProductHandler
}

// NewContainer builds and initializes the whole dependency graph.
// Any failure aborts startup.
func NewContainer() (*Container, error) {
	log.Println("[CONTAINER] Initializing dependencies...")

	c := &Container{}
	ctx := context.Background()

	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	// 2. PostgreSQL
	c.DB = database.NewPostgresDB(cfg.LoadDatabaseConfig())
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// 3. Redis (durable session storage)
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	// 4. MinIO (banner object storage)
	c.Storage, err = storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init minio: %w", err)
	}

	// 5. JWT + session cache
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	sessionStore := session.NewRedisStore(c.Redis.Client, config.SessionTTLHours*time.Hour)
	c.Sessions = session.NewCache(sessionStore)

	// 6. User domain
	c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool)
	oauthProviders := userService.NewOAuthProviders(cfg.OAuth)
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, c.Sessions, oauthProviders)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)

	// 7. Product domain
	c.ProductRepo = productRepo.NewPostgresRepository(c.DB.Pool)
	imageProcessor := storage.NewImageProcessor()
	c.ProductManager = productService.NewManager(c.ProductRepo, c.Storage, imageProcessor, c.Sessions)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductManager)

	log.Println("[CONTAINER] All dependencies initialized")
	return c, nil
}

// Cleanup releases external resources on shutdown.
func (c *Container) Cleanup() {
	log.Println("[CONTAINER] Cleaning up...")

	if c.ProductManager != nil {
		c.ProductManager.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("[CONTAINER] Redis close error: %v", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
