package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"taskmate/internal/cache"
	"taskmate/internal/config"
	"taskmate/internal/database"
	"taskmate/internal/handler"
	"taskmate/internal/queue"
	redisclient "taskmate/internal/redis"
	"taskmate/internal/repository"
	"taskmate/internal/scheduler"
	"taskmate/internal/service"
	"taskmate/internal/worker"
)

// Run wires the whole application and blocks until shutdown.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.ReferenceTimezone)
	if err != nil {
		return fmt.Errorf("failed to load reference timezone %q: %w", cfg.ReferenceTimezone, err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Connect to Redis (optional: caching and the notification stream
	// degrade gracefully when absent)
	var rdb *redisclient.Client
	if cfg.RedisURL != "" {
		rdb, err = redisclient.NewClient(cfg.RedisURL)
		if err == nil {
			err = rdb.Ping(ctx)
		}
		if err != nil {
			log.Printf("Redis unavailable, notifications and caching disabled: %v", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewAuthTokenRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	deviceTokenRepo := repository.NewDeviceTokenRepository(db)
	songRepo := repository.NewSongRepository(db)

	// 5. Push and storage clients (both optional)
	var fcm *service.FCMClient
	if cfg.FCMProjectID != "" && cfg.FCMClientEmail != "" && cfg.FCMPrivateKey != "" {
		fcm, err = service.NewFCMClient(ctx, cfg.FCMProjectID, cfg.FCMClientEmail, cfg.FCMPrivateKey)
		if err != nil {
			log.Printf("FCM unavailable, push notifications disabled: %v", err)
			fcm = nil
		}
	}

	var artwork *service.ArtworkService
	if cfg.R2AccountID != "" {
		artwork, err = service.NewArtworkService(ctx, cfg)
		if err != nil {
			log.Printf("R2 unavailable, artwork uploads disabled: %v", err)
			artwork = nil
		}
	}

	// 6. Event stream: scheduler firings go through Redis Streams to the
	// worker pool, which fans out to FCM
	var publisher *queue.RedisPublisher
	var songCache cache.SongCache
	var workerManager *worker.Manager
	if rdb != nil {
		publisher = queue.NewPublisher(rdb.Client).(*queue.RedisPublisher)
		songCache = cache.NewSongCache(rdb.Client)

		consumer := queue.NewConsumer(rdb.Client)
		var push worker.PushSender
		if fcm != nil {
			push = fcm
		}
		eventHandler := worker.NewHandler(deviceTokenRepo, push)
		workerManager = worker.NewManager(consumer, eventHandler, worker.ManagerConfig{
			WorkerCount: cfg.WorkerCount,
		})
		if err := workerManager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start workers: %w", err)
		}
		defer workerManager.Stop()
	}

	// 7. Reminder scheduler: fires publish onto the stream, delivery is the
	// workers' problem
	reminders := scheduler.New(func(todoID, userID int64, title string) {
		if publisher == nil {
			log.Printf("[Reminder] Fired without publisher: todo=%d", todoID)
			return
		}
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := publisher.PublishReminderDue(pubCtx, todoID, userID, title); err != nil {
			log.Printf("[Reminder] Publish FAILED: todo=%d err=%v", todoID, err)
		}
	})
	defer reminders.Stop()

	// 8. Services
	tokenService := service.NewTokenService(tokenRepo, cfg.JWTSecret, cfg.TokenMaxAge)
	userService := service.NewUserService(userRepo, deviceTokenRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	var eventPublisher service.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}
	todoService := service.NewTodoService(todoRepo, categoryRepo, reminders, eventPublisher, loc)
	songService := service.NewSongService(songRepo, songCache)

	// Reminders do not survive a restart on their own; rebuild from the DB
	if err := todoService.RehydrateReminders(ctx); err != nil {
		log.Printf("Reminder rehydration failed: %v", err)
	}

	// 9. Handlers and router
	router := NewRouter(RouterConfig{
		AuthHandler:     handler.NewAuthHandler(userService, tokenService),
		TodoHandler:     handler.NewTodoHandler(todoService),
		CategoryHandler: handler.NewCategoryHandler(categoryService),
		SongHandler:     handler.NewSongHandler(songService, artwork),
		TokenVerifier:   tokenService,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
