package router

import (
	"github.com/gin-gonic/gin"
	"github.com/nkuzn/shoply-backend/config"
	"github.com/nkuzn/shoply-backend/internal/app/controller"
	"github.com/nkuzn/shoply-backend/internal/authz"
	"github.com/nkuzn/shoply-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	productController  *controller.ProductController
	commentController  *controller.CommentController
	favoriteController *controller.FavoriteController
	uploadController   *controller.UploadController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	commentController *controller.CommentController,
	favoriteController *controller.FavoriteController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		productController:  productController,
		commentController:  commentController,
		favoriteController: favoriteController,
		uploadController:   uploadController,
		authMiddleware:     authMiddleware,
		config:             cfg,
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
			"message": "SHOPLY API is running",
		})
	})

	auth := r.authMiddleware

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", r.authController.Register)
			authGroup.POST("/token", r.authController.Token)
			authGroup.POST("/token/refresh", r.authController.TokenRefresh)
			authGroup.GET("/me", auth.Authenticate(), r.authController.GetMe)
			authGroup.POST("/logout", auth.Authenticate(), r.authController.Logout)
		}

		products := v1.Group("/products")
		{
			products.GET("",
				auth.OptionalAuthenticate(),
				auth.RequireCapability(authz.ProductList),
				r.productController.GetAllProducts,
			)
			products.GET("/:id",
				auth.OptionalAuthenticate(),
				auth.RequireCapability(authz.ProductRetrieve),
				r.productController.GetProductByID,
			)
			products.POST("",
				auth.Authenticate(),
				auth.RequireCapability(authz.ProductCreate),
				r.productController.CreateProduct,
			)
			products.PUT("/:id",
				auth.Authenticate(),
				auth.RequireCapability(authz.ProductUpdate),
				r.productController.UpdateProduct,
			)
			products.PATCH("/:id",
				auth.Authenticate(),
				auth.RequireCapability(authz.ProductPatch),
				r.productController.PatchProduct,
			)
			products.DELETE("/:id",
				auth.Authenticate(),
				auth.RequireCapability(authz.ProductDelete),
				r.productController.DeleteProduct,
			)
			products.POST("/:id/favorite",
				auth.Authenticate(),
				auth.RequireCapability(authz.ProductFavorite),
				r.productController.ToggleFavorite,
			)
		}

		comments := v1.Group("/comments")
		comments.Use(auth.Authenticate())
		{
			comments.GET("",
				auth.RequireCapability(authz.CommentList),
				r.commentController.ListComments,
			)
			comments.GET("/:id",
				auth.RequireCapability(authz.CommentRetrieve),
				r.commentController.GetComment,
			)
			comments.POST("",
				auth.RequireCapability(authz.CommentCreate),
				r.commentController.CreateComment,
			)
			comments.PUT("/:id",
				auth.RequireCapability(authz.CommentUpdate),
				r.commentController.UpdateComment,
			)
			comments.PATCH("/:id",
				auth.RequireCapability(authz.CommentPatch),
				r.commentController.PatchComment,
			)
			comments.DELETE("/:id",
				auth.RequireCapability(authz.CommentDelete),
				r.commentController.DeleteComment,
			)
		}

		favorites := v1.Group("/favorites")
		favorites.Use(auth.Authenticate())
		{
			favorites.GET("",
				auth.RequireCapability(authz.FavoriteList),
				r.favoriteController.GetFavorites,
			)
			favorites.POST("",
				auth.RequireCapability(authz.FavoriteCreate),
				r.favoriteController.AddFavorite,
			)
			favorites.GET("/my_favorites",
				auth.RequireCapability(authz.FavoriteMine),
				r.favoriteController.MyFavorites,
			)
		}

		upload := v1.Group("/upload")
		upload.Use(auth.Authenticate())
		{
			upload.POST("/presigned-url",
				auth.RequireCapability(authz.UploadImage),
				r.uploadController.GeneratePresignedURL,
			)
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
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
