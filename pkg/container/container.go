package container

import (
	"context"
	"fmt"
	"time"

	"catalog-backend/internal/config"
	infraCache "catalog-backend/internal/infrastructure/cache"
	"catalog-backend/internal/infrastructure/database"
	"catalog-backend/internal/infrastructure/mongodb"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/logger"

	"catalog-backend/internal/domains/category"
	categoryHandler "catalog-backend/internal/domains/category/handler"
	categoryRepo "catalog-backend/internal/domains/category/repository"
	categoryService "catalog-backend/internal/domains/category/service"

	"catalog-backend/internal/domains/product"
	productHandler "catalog-backend/internal/domains/product/handler"
	productRepo "catalog-backend/internal/domains/product/repository"
	productService "catalog-backend/internal/domains/product/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application.
// Chỉ 1 trong Mongo / DB được set, tuỳ STORAGE_DRIVER.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config *config.Config
	Mongo  *mongodb.MongoDB        // driver = mongo
	DB     *database.PostgresDB    // driver = postgres
	Redis  *infraCache.RedisClient // nil khi redis tắt hoặc không kết nối được
	Cache  cache.Cache             // Redis hoặc no-op, không bao giờ nil

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	CategoryRepo category.CategoryRepository
	ProductRepo  product.ProductRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	CategoryService category.CategoryService
	ProductService  product.ProductService

	// ========================================
	// HANDLER LAYER
	// ========================================
	CategoryHandler *categoryHandler.CategoryHandler
	ProductHandler  *productHandler.ProductHandler

	stopMonitor context.CancelFunc
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph.
//
// Thứ tự initialization:
// 1. Storage (Mongo hoặc PostgreSQL) - phụ thuộc Config
// 2. Cache (Redis, fallback no-op)
// 3. Repositories - phụ thuộc Storage + Cache
// 4. Services - phụ thuộc Repositories
// 5. Handlers - phụ thuộc Services
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger.Info("🔧 Initializing DI Container...", map[string]interface{}{
		"driver": cfg.Storage.Driver,
	})

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: INITIALIZE STORAGE
	// ========================================
	connectCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db := database.NewPostgresDB(cfg.PostgresDBConfig())
		if err := db.Connect(connectCtx); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db

		monitorCtx, stop := context.WithCancel(context.Background())
		c.stopMonitor = stop
		go db.MonitorPoolHealth(monitorCtx, time.Minute)
	default:
		m := mongodb.NewMongoDB(cfg.MongoDBConfig())
		if err := m.Connect(connectCtx); err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		c.Mongo = m
	}

	// ========================================
	// STEP 2: INITIALIZE CACHE
	// ========================================
	// Redis failure không critical - log warning và dùng no-op cache
	c.Cache = cache.NewNoopCache()
	if cfg.Redis.Enabled {
		rc := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		if err := rc.Connect(ctx); err != nil {
			logger.Warn("⚠️  Redis connection failed (non-critical), caching disabled", map[string]interface{}{
				"error": err.Error(),
			})
			_ = rc.Close()
		} else {
			c.Redis = rc
			c.Cache = infraCache.NewRedisCache(rc)
		}
	}

	// ========================================
	// STEP 3-5: REPOSITORIES → SERVICES → HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("🎉 DI Container initialized successfully", nil)
	return c, nil
}

func (c *Container) initRepositories() {
	var (
		catRepo  category.CategoryRepository
		prodRepo product.ProductRepository
	)

	if c.DB != nil {
		catRepo = categoryRepo.NewPostgresRepository(c.DB.Pool)
		prodRepo = productRepo.NewPostgresRepository(c.DB)
	} else {
		catRepo = categoryRepo.NewMongoRepository(c.Mongo.DB)
		prodRepo = productRepo.NewMongoRepository(c.Mongo.DB)
	}

	// 1 Guard cho cả 2: category mutation phải chặn cả product lookup đang chạy
	guard := cache.NewGuard(c.Cache)
	ttl := c.Config.Redis.CacheTTL
	c.CategoryRepo = categoryRepo.NewCachedRepository(catRepo, guard, ttl)
	c.ProductRepo = productRepo.NewCachedRepository(prodRepo, guard, ttl)
}

func (c *Container) initServices() {
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo)
	c.ProductService = productService.NewProductService(
		c.ProductRepo,
		c.CategoryService, // CategoryService thoả mãn product.CategoryLookup
		c.Config.ProductSlugMode(),
	)
}

func (c *Container) initHandlers() {
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)
}

// EnsureIndexes tạo unique index (mongo) hoặc schema (postgres).
// Category trước product vì products.category_id tham chiếu categories.
func (c *Container) EnsureIndexes(ctx context.Context) error {
	if err := c.CategoryRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := c.ProductRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	logger.Info("✅ Indexes ensured", map[string]interface{}{"driver": c.Config.Storage.Driver})
	return nil
}

// StorageHealthCheck ping storage đang dùng
func (c *Container) StorageHealthCheck(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.HealthCheck(ctx)
	}
	if c.Mongo != nil {
		return c.Mongo.HealthCheck(ctx)
	}
	return fmt.Errorf("no storage configured")
}

// CacheHealthCheck: nil nghĩa là ok, "disabled" khi không dùng Redis
func (c *Container) CacheHealthCheck(ctx context.Context) (string, error) {
	if c.Redis == nil {
		return "disabled", nil
	}
	if err := c.Redis.HealthCheck(ctx); err != nil {
		return "", err
	}
	return "ok", nil
}

func (c *Container) Cleanup() {
	logger.Info("🧹 Cleaning up container resources...", nil)

	if c.stopMonitor != nil {
		c.stopMonitor()
	}

	if c.DB != nil {
		c.DB.Close()
		logger.Info("✅ Database connections closed", nil)
	}

	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Mongo.Close(ctx); err != nil {
			logger.Error("⚠️  Failed to disconnect Mongo", err)
		} else {
			logger.Info("✅ Mongo disconnected", nil)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("⚠️  Failed to close Redis", err)
		} else {
			logger.Info("✅ Redis connections closed", nil)
		}
	}

	logger.Info("✅ Container cleanup completed", nil)
}
