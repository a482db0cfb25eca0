package router

import (
	"fmt"
	"strings"

	"github.com/agromate/agromate-api/internal/cache"
	"github.com/agromate/agromate-api/internal/config"
	dashboardhandlers "github.com/agromate/agromate-api/internal/http/handlers/dashboard"
	publichandlers "github.com/agromate/agromate-api/internal/http/handlers/public"
	"github.com/agromate/agromate-api/internal/logger"
	"github.com/agromate/agromate-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with the full route table.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.Z()
	r := gin.New()

	publicHandler := publichandlers.New(c)
	dashboardHandler := dashboardhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "agm"
	}
	redisClient := cache.Client()
	authRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:auth", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many attempts, try again later",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(MetricsMiddleware())

	// Uploaded images when the local provider is in use.
	r.Static("/uploads", "./uploads")

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/products/:id/related", publicHandler.GetRelatedProducts)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		auth := apiV1.Group("/auth")
		{
			auth.POST("/signup", RateLimitMiddleware(redisClient, authRule, KeyByIPAndJSONField("email")), publicHandler.Signup)
			auth.POST("/login", RateLimitMiddleware(redisClient, authRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		me := apiV1.Group("")
		me.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), RoleGateMiddleware(c.AuthzService))
		{
			me.GET("/me", publicHandler.GetMe)
			me.PUT("/me/profile", publicHandler.UpdateProfile)
			me.PUT("/me/password", publicHandler.ChangePassword)
			me.POST("/me/avatar", publicHandler.UploadAvatar)
			me.GET("/me/notifications", publicHandler.ListNotifications)
			me.POST("/me/notifications/:id/read", publicHandler.MarkNotificationRead)
			me.POST("/me/notifications/read-all", publicHandler.MarkAllNotificationsRead)
		}

		dashboard := apiV1.Group("/dashboard")
		dashboard.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), RoleGateMiddleware(c.AuthzService))
		{
			buyer := dashboard.Group("/buyer")
			{
				buyer.GET("/cart", dashboardHandler.GetCart)
				buyer.POST("/cart/items", dashboardHandler.AddCartItem)
				buyer.PUT("/cart/items/:product_id", dashboardHandler.SetCartItemQuantity)
				buyer.DELETE("/cart/items/:product_id", dashboardHandler.RemoveCartItem)
				buyer.DELETE("/cart", dashboardHandler.ClearCart)
				buyer.POST("/checkout/preview", dashboardHandler.PreviewCheckout)
				buyer.POST("/checkout", dashboardHandler.Checkout)
				buyer.GET("/orders", dashboardHandler.ListBuyerOrders)
				buyer.GET("/orders/:id", dashboardHandler.GetBuyerOrder)
				buyer.POST("/orders/:id/cancel", dashboardHandler.CancelBuyerOrder)
			}

			farmer := dashboard.Group("/farmer")
			{
				farmer.GET("/products", dashboardHandler.ListFarmerProducts)
				farmer.POST("/products", dashboardHandler.CreateProduct)
				farmer.PUT("/products/:id", dashboardHandler.UpdateProduct)
				farmer.DELETE("/products/:id", dashboardHandler.DeleteProduct)
				farmer.POST("/products/upload", dashboardHandler.UploadProductImage)
				farmer.GET("/orders", dashboardHandler.ListFarmerOrders)
				farmer.PATCH("/orders/:id/status", dashboardHandler.UpdateFarmerOrderStatus)
				farmer.GET("/stats", dashboardHandler.GetFarmerStats)
			}

			delivery := dashboard.Group("/delivery")
			{
				delivery.GET("/orders/available", dashboardHandler.ListAvailableOrders)
				delivery.POST("/orders/:id/claim", dashboardHandler.ClaimOrder)
				delivery.GET("/orders", dashboardHandler.ListDeliveryOrders)
				delivery.PATCH("/orders/:id/status", dashboardHandler.UpdateDeliveryOrderStatus)
				delivery.GET("/stats", dashboardHandler.GetDeliveryStats)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", MetricsHandler())

	return r
}
