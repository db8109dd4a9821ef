package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jigden18/portal-backend/config"
	"github.com/Jigden18/portal-backend/internal/handler"
	"github.com/Jigden18/portal-backend/internal/middleware"
	"github.com/Jigden18/portal-backend/internal/redis"
	"github.com/Jigden18/portal-backend/internal/services"
	"github.com/Jigden18/portal-backend/internal/transport/httpdto"
	"github.com/Jigden18/portal-backend/internal/websocket"
	"github.com/Jigden18/portal-backend/pkg/database"
	"github.com/Jigden18/portal-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

// Handlers bundles everything SetupRoutes mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Chat        *handler.ChatHandler
	Search      *handler.SearchHandler
	Call        *handler.CallHandler
	Profile     *handler.ProfileHandler
	Job         *handler.JobHandler
	Application *handler.ApplicationHandler
	WS          *websocket.Handler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	authed := middleware.AuthMiddleware(authService)

	api := s.engine.Group("/api")
	{
		register := api.Group("")
		login := api.Group("")
		if limiter != nil {
			register.Use(middleware.AuthRateLimitMiddleware(limiter))
			login.Use(middleware.AuthRateLimitMiddleware(limiter))
		}
		register.POST("/register", handlers.Auth.Register)
		login.POST("/login", handlers.Auth.Login)

		api.GET("/me", authed, handlers.Auth.Me)

		conversations := api.Group("/conversations", authed)
		{
			conversations.GET("", handlers.Chat.ListConversations)
			conversations.POST("/:id", handlers.Chat.StartConversation)
			conversations.GET("/:id/messages", handlers.Chat.GetMessages)
			conversations.POST("/:id/archive", handlers.Chat.Archive)
			conversations.POST("/:id/unarchive", handlers.Chat.Unarchive)
			conversations.POST("/:id/unread", handlers.Chat.MarkUnread)
			conversations.DELETE("/:id", handlers.Chat.DeleteConversation)
			conversations.POST("/:id/call/start", handlers.Call.StartCall)
			conversations.POST("/:id/call/end", handlers.Call.EndCall)
		}

		messages := api.Group("/messages", authed)
		{
			send := messages.Group("")
			if limiter != nil {
				send.Use(middleware.MessageRateLimitMiddleware(limiter))
			}
			send.POST("", handlers.Chat.SendMessage)
			messages.DELETE("/:id", handlers.Chat.DeleteMessageForMe)
			messages.DELETE("/:id/everyone", handlers.Chat.DeleteMessageForEveryone)
		}

		chat := api.Group("/chat", authed)
		{
			chat.GET("/unread-count", handlers.Chat.UnreadCount)
			chat.GET("/search", handlers.Search.Search)
		}

		api.GET("/profile", authed, handlers.Profile.GetProfile)
		api.POST("/profile", authed, handlers.Profile.SaveProfile)
		api.GET("/organization", authed, handlers.Profile.GetOrganization)
		api.POST("/organization", authed, handlers.Profile.SaveOrganization)

		jobs := api.Group("/jobs", authed)
		{
			jobs.GET("", handlers.Job.SearchVacancies)
			jobs.GET("/categories", handlers.Job.ListCategories)
			jobs.GET("/:id", handlers.Job.GetVacancy)
			jobs.POST("/:id/bookmark", handlers.Job.ToggleBookmark)
			jobs.POST("/:id/apply", handlers.Application.Apply)
		}

		api.GET("/bookmarks", authed, handlers.Job.ListBookmarkedJobs)
		api.GET("/preferences", authed, handlers.Job.ListPreferences)
		api.POST("/preferences", authed, handlers.Job.SetPreferences)

		applications := api.Group("/applications", authed)
		{
			applications.GET("", handlers.Application.ListMyApplications)
			applications.GET("/:id", handlers.Application.GetApplication)
			applications.GET("/:id/interview", handlers.Call.GetInterview)
		}

		org := api.Group("/org", authed)
		{
			org.GET("/jobs", handlers.Job.ListOrganizationVacancies)
			org.POST("/jobs", handlers.Job.CreateVacancy)
			org.PUT("/jobs/:id", handlers.Job.UpdateVacancy)
			org.POST("/jobs/:id/toggle-status", handlers.Job.ToggleVacancyStatus)
			org.GET("/jobs/:id/applications", handlers.Application.ListApplicants)
			org.PATCH("/applications/:id/status", handlers.Application.UpdateStatus)
		}
	}

	s.engine.GET("/ws", handlers.WS.Connect)
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
