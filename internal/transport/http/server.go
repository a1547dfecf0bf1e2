package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialgraph/internal/config"
	"socialgraph/internal/database"
	"socialgraph/internal/handler"
	"socialgraph/internal/queue"
	"socialgraph/internal/redis"
	"socialgraph/internal/repository"
	"socialgraph/internal/service"
	"socialgraph/internal/worker"
)

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Connect to Redis
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Println("Connected to Redis successfully")

	// 4. Stores
	relationStore := repository.NewRelationStore(db)
	userStore := repository.NewUserStore(db)
	notificationStore := repository.NewNotificationStore(db)

	// 5. Queue plumbing: publisher feeds the stream, the notifier adapts it
	// for the relationship service
	publisher := queue.NewPublisher(redisClient.Client)
	notifier := queue.NewStreamNotifier(publisher)

	// 6. Services
	relationshipService := service.NewRelationshipService(relationStore, userStore, notifier)
	queryService := service.NewQueryService(relationStore)
	userService := service.NewUserService(userStore)
	notificationService := service.NewNotificationService(notificationStore)

	// 7. Notification workers
	consumer := queue.NewConsumer(redisClient.Client)
	workerManager := worker.NewManager(consumer, worker.NewHandler(notificationStore), worker.ManagerConfig{
		WorkerCount: cfg.WorkerCount,
	})
	if err := workerManager.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}

	// 8. Router
	router := NewRouter(RouterConfig{
		UserHandler:         handler.NewUserHandler(userService),
		RelationshipHandler: handler.NewRelationshipHandler(relationshipService),
		QueryHandler:        handler.NewQueryHandler(queryService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		JWTSecret:           cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// 9. Serve until interrupted
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		workerManager.Stop()
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Printf("Received signal %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	workerManager.Stop()

	log.Println("Server exited")
	return nil
}
