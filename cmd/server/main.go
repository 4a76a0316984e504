package main

import (
	"context"
	"log"
	"net/http"

	"inkwell/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"inkwell/internal/ai"
	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/db"
	"inkwell/internal/handler"
	"inkwell/internal/mail"
	"inkwell/internal/model"
	"inkwell/internal/repository"
	"inkwell/internal/router"
	"inkwell/internal/service"
	"inkwell/internal/storage"
)

// @title Inkwell Blog API
// @version 1.0
// @description Blog platform API with JWT authentication, comments, newsletter and AI assistance.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Blog{},
		&model.BlogLike{},
		&model.Comment{},
		&model.NewsletterSubscriber{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	blogRepo := repository.NewBlogRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)
	newsletterRepo := repository.NewNewsletterRepository(gormDB)

	// Initialize external collaborators
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	mailer := mail.NewSMTPMailer(mail.Config{
		Host:   cfg.SMTPHost,
		Port:   cfg.SMTPPort,
		User:   cfg.SMTPUser,
		Pass:   cfg.SMTPPass,
		Secure: cfg.SMTPSecure,
		From:   cfg.MailFrom,
	})
	uploader, err := storage.NewUploader(context.Background(), storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}
	aiClient := ai.NewClient(ai.Config{
		APIKey:      cfg.OpenAIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		ImageAPIURL: cfg.ImageAPIURL,
		ImageAPIKey: cfg.ImageAPIKey,
	})
	if cfg.OpenAIKey == "" {
		log.Println("OPENAI_API_KEY is missing, AI routes will report unavailable")
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	blogService := service.NewBlogService(blogRepo, cacheClient)
	commentService := service.NewCommentService(commentRepo, blogRepo)
	newsletterService := service.NewNewsletterService(newsletterRepo, mailer)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	blogHandler := handler.NewBlogHandler(blogService)
	commentHandler := handler.NewCommentHandler(commentService)
	newsletterHandler := handler.NewNewsletterHandler(newsletterService, cfg)
	uploadHandler := handler.NewUploadHandler(uploader)
	aiHandler := handler.NewAIHandler(aiClient)

	// Register routes
	router.Register(
		e,
		cfg,
		userRepo,
		authHandler,
		blogHandler,
		commentHandler,
		newsletterHandler,
		uploadHandler,
		aiHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
