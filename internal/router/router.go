// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/commercekit/catalog-backend/internal/catalog"
	"github.com/commercekit/catalog-backend/internal/config"
	"github.com/commercekit/catalog-backend/internal/files"
	"github.com/commercekit/catalog-backend/internal/handlers"
	"github.com/commercekit/catalog-backend/internal/middleware"
	"github.com/commercekit/catalog-backend/internal/pricing"
	"github.com/commercekit/catalog-backend/internal/store"
	"github.com/commercekit/catalog-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	domainStore := store.New(db)

	fileService, err := files.NewS3Service(db, cfg)
	if err != nil {
		return nil, err
	}

	var engine pricing.Engine = pricing.NewTierEngine(nil)
	if cfg.Pricing.StripeSecretKey != "" {
		engine = pricing.NewStripeEngine(cfg.Pricing.StripeSecretKey, engine)
	}

	processor := catalog.NewProcessor(domainStore, engine, fileService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg)
	catalogHandler := handlers.NewCatalogHandler(processor, cfg)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
		}

		catalogRoutes := v1.Group("/catalog")
		{
			catalogRoutes.GET("/products", catalogHandler.ListProducts)
			catalogRoutes.GET("/products/:id", catalogHandler.GetProduct)

			protected := catalogRoutes.Group("")
			protected.Use(middleware.AuthRequired(), middleware.OpsRateLimit())
			{
				protected.POST("/ops/ADD_MEDIA",
					middleware.UploadRateLimit(), func(c *gin.Context) {
						c.Params = append(c.Params, gin.Param{Key: "operation", Value: string(catalog.OpAddMedia)})
						catalogHandler.DispatchOperation(c)
					})
				protected.POST("/ops/:operation", catalogHandler.DispatchOperation)
			}
		}
	}

	return r, nil
}
