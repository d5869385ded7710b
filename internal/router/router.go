package router

import (
	"github.com/gemcompare/gemcompare-backend/config"
	"github.com/gemcompare/gemcompare-backend/internal/app/controller"
	"github.com/gemcompare/gemcompare-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController      *controller.AuthController
	productController   *controller.ProductController
	watchlistController *controller.WatchlistController
	sessionMiddleware   *middleware.SessionMiddleware
	authMiddleware      *middleware.AuthMiddleware
	csrfMiddleware      *middleware.CSRFMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	watchlistController *controller.WatchlistController,
	sessionMiddleware *middleware.SessionMiddleware,
	authMiddleware *middleware.AuthMiddleware,
	csrfMiddleware *middleware.CSRFMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		productController:   productController,
		watchlistController: watchlistController,
		sessionMiddleware:   sessionMiddleware,
		authMiddleware:      authMiddleware,
		csrfMiddleware:      csrfMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "GEMCOMPARE API is running",
		})
	})

	// Everything under /api/v1 runs with a session
	v1 := router.Group("/api/v1")
	v1.Use(r.sessionMiddleware.Handle())
	{
		auth := v1.Group("/auth")
		{
			auth.GET("/csrf", r.authController.CSRFToken)
			auth.POST("/register", r.csrfMiddleware.RequireCSRF(), r.authController.Register)
			auth.POST("/login", r.csrfMiddleware.RequireCSRF(), r.authController.Login)
			auth.POST("/logout", r.csrfMiddleware.RequireCSRF(), r.authController.Logout)
			auth.POST("/forgot-password", r.csrfMiddleware.RequireCSRF(), r.authController.ForgotPassword)
			auth.POST("/reset-password", r.csrfMiddleware.RequireCSRF(), r.authController.ResetPassword)
			auth.GET("/profile", r.authMiddleware.RequireAuth(), r.authController.GetProfile)
			auth.POST("/profile",
				r.authMiddleware.RequireAuth(),
				r.csrfMiddleware.RequireCSRF(),
				r.authController.UpdateProfile,
			)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
			products.GET("/:id/prices", r.productController.GetPriceHistory)
		}

		watchlist := v1.Group("/watchlist")
		watchlist.Use(r.authMiddleware.RequireAuth())
		{
			watchlist.GET("", r.watchlistController.GetWatchlist)
			watchlist.POST("", r.csrfMiddleware.RequireCSRF(), r.watchlistController.AddToWatchlist)
			watchlist.POST("/remove", r.csrfMiddleware.RequireCSRF(), r.watchlistController.RemoveFromWatchlist)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
