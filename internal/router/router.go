package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/handler"
	"inkwell/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	users repository.UserRepository,
	authHandler *handler.AuthHandler,
	blogHandler *handler.BlogHandler,
	commentHandler *handler.CommentHandler,
	newsletterHandler *handler.NewsletterHandler,
	uploadHandler *handler.UploadHandler,
	aiHandler *handler.AIHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("10M"))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "API is running...")
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Every protected route goes through the same gateway; none parses
	// tokens on its own.
	protected := auth.RequireAuth(cfg.JWTSecret, users)

	// Auth
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.PUT("/auth/profile", authHandler.UpdateProfile, protected...)

	// Blogs
	api.POST("/blogs", blogHandler.Create, protected...)
	api.GET("/blogs", blogHandler.List)
	api.GET("/blogs/:id", blogHandler.Get)
	api.PUT("/blogs/:id", blogHandler.Update, protected...)
	api.DELETE("/blogs/:id", blogHandler.Delete, protected...)
	api.POST("/blogs/:id/like", blogHandler.ToggleLike, protected...)

	// Comments
	api.POST("/comments/:blogId", commentHandler.Add, protected...)
	api.GET("/comments/:blogId", commentHandler.List)
	api.DELETE("/comments/:commentId", commentHandler.Delete, protected...)

	// Newsletter
	api.POST("/newsletter", newsletterHandler.Subscribe)
	api.GET("/newsletter/health", newsletterHandler.Health)

	// Image upload
	api.POST("/upload", uploadHandler.Upload)

	// AI proxy
	api.GET("/ai/stream-blog", aiHandler.StreamBlog)
	api.POST("/ai/generate-image", aiHandler.GenerateImage)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
