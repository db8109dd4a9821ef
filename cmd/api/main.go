package main

import (
	"context"
	"log"
	"time"

	"github.com/Jigden18/portal-backend/config"
	"github.com/Jigden18/portal-backend/internal/domain/chat"
	"github.com/Jigden18/portal-backend/internal/domain/job"
	"github.com/Jigden18/portal-backend/internal/domain/user"
	"github.com/Jigden18/portal-backend/internal/handler"
	portal_redis "github.com/Jigden18/portal-backend/internal/redis"
	"github.com/Jigden18/portal-backend/internal/repository"
	"github.com/Jigden18/portal-backend/internal/server"
	"github.com/Jigden18/portal-backend/internal/services"
	"github.com/Jigden18/portal-backend/internal/storage"
	"github.com/Jigden18/portal-backend/internal/websocket"
	"github.com/Jigden18/portal-backend/pkg/database"
	pkgevents "github.com/Jigden18/portal-backend/pkg/events"
	"github.com/Jigden18/portal-backend/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)

	database.Connect(cfg)
	if err := database.DB.AutoMigrate(
		&user.User{},
		&user.Profile{},
		&user.Organization{},
		&chat.Conversation{},
		&chat.Message{},
		&job.Vacancy{},
		&job.Application{},
		&job.Bookmark{},
		&job.Category{},
		&job.Preference{},
		&job.Currency{},
	); err != nil {
		log.Fatalf("Failed to apply GORM migrations: %v", err)
	}
	if err := database.Seed(database.DB); err != nil {
		log.Fatalf("Failed to seed reference data: %v", err)
	}

	redisClient := portal_redis.NewClient(portal_redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	profileRepo := repository.NewProfileRepository(database.DB)
	orgRepo := repository.NewOrganizationRepository(database.DB)
	convRepo := repository.NewConversationRepository(database.DB)
	messageRepo := repository.NewMessageRepository(database.DB)
	vacancyRepo := repository.NewVacancyRepository(database.DB)
	appRepo := repository.NewApplicationRepository(database.DB)
	bookmarkRepo := repository.NewBookmarkRepository(database.DB)
	prefRepo := repository.NewPreferenceRepository(database.DB)

	// Realtime plumbing
	broker := pkgevents.NewRedisBroker(redisClient, l)
	notifier := services.NewNotifier(broker, l)
	hub := websocket.NewHub()
	go hub.Run(ctx)
	bridge := websocket.NewRedisBridge(redisClient, hub, l)
	go bridge.Run(ctx)

	var store storage.ObjectStore
	s3Client, err := storage.NewClient(ctx, storage.S3Config{
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Endpoint:  cfg.S3Endpoint,
	})
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	store = s3Client

	// Services
	authSvc := services.NewAuthService(userRepo, cfg)
	identitySvc := services.NewIdentityService(userRepo, profileRepo, orgRepo)
	chatSvc := services.NewChatService(convRepo, messageRepo, identitySvc, notifier)
	searchCache := portal_redis.NewSearchCache(redisClient, time.Duration(cfg.SearchCacheTTLSec)*time.Second)
	searchSvc := services.NewSearchService(profileRepo, orgRepo, searchCache, l)
	callSvc := services.NewCallService(convRepo, messageRepo, appRepo, orgRepo, profileRepo, notifier, cfg)
	profileSvc := services.NewProfileService(profileRepo, orgRepo, store, l)
	jobSvc := services.NewJobService(vacancyRepo, bookmarkRepo, prefRepo, orgRepo, profileRepo)
	appSvc := services.NewApplicationService(appRepo, vacancyRepo, orgRepo, profileRepo, chatSvc, store, l)

	var limiter *portal_redis.RateLimiter
	if cfg.RateLimitEnabled {
		limiter = portal_redis.NewRateLimiter(redisClient, portal_redis.DefaultRateLimitConfig())
	}

	if cfg.InterviewReminders {
		go runInterviewReminders(ctx, appSvc, l)
	}

	authorizer := websocket.NewChannelAuthorizer(convRepo)
	handlers := &server.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Chat:        handler.NewChatHandler(chatSvc),
		Search:      handler.NewSearchHandler(searchSvc),
		Call:        handler.NewCallHandler(callSvc),
		Profile:     handler.NewProfileHandler(profileSvc),
		Job:         handler.NewJobHandler(jobSvc),
		Application: handler.NewApplicationHandler(appSvc),
		WS:          websocket.NewHandler(authSvc, hub, authorizer, l),
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, authSvc, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}

// runInterviewReminders posts interview-day reminders once per day.
func runInterviewReminders(ctx context.Context, appSvc *services.ApplicationService, l *logger.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		if err := appSvc.NotifyDueInterviews(ctx); err != nil {
			l.Errorf("interview reminders: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
