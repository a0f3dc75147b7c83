package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servicebid/config"
	"servicebid/cron"
	"servicebid/database"
	"servicebid/database/repository"
	"servicebid/handlers"
	"servicebid/middleware"
	"servicebid/routes"
	"servicebid/services/autoreply"
	"servicebid/services/lifecycle"
	"servicebid/services/market"
	"servicebid/services/negotiation"
	"servicebid/services/workflow"
	"servicebid/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitCache()

	// Persistence store: Redis by default, Mongo when configured.
	var store database.Store
	switch config.AppConfig.StoreBackend {
	case "mongo":
		database.InitDB()
		store = database.NewMongoStore(database.MongoClient, config.AppConfig.MongoDB)
	default:
		utils.InitStoreClient()
		store = database.NewRedisStore(utils.GetStoreClient())
	}

	repo, err := repository.NewStoreBackedRepo(store)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load persistence snapshot: %v", err)
	}

	if config.AppConfig.SeedDemoData {
		if err := repository.SeedDemoData(repo); err != nil {
			logger.Sugar().Fatalf("main: failed to seed demo data: %v", err)
		}
	}

	// Services.
	engine := &lifecycle.DefaultEngine{Repo: repo}
	negotiationSvc := negotiation.NewDefaultService(repo, engine)
	workflowCtl := &workflow.DefaultController{Repo: repo, Engine: engine}
	marketSim := market.NewSimulatorFromConfig(utils.GetCacheClient())
	autoReplySvc := &autoreply.DefaultService{
		Repo:      repo,
		Engine:    engine,
		Scheduler: autoreply.NewAsynqScheduler(),
	}

	// Background delivery worker for scheduled auto-replies.
	cron.InitAutoReplyWorker(autoReplySvc)

	redisClients := []*redis.Client{utils.GetCacheClient()}
	if config.AppConfig.StoreBackend != "mongo" {
		redisClients = append(redisClients, utils.GetStoreClient())
	}
	utils.StartHealthMonitor(redisClients, database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	handlerBundle := handlers.NewHandlerBundle(handlers.Deps{
		Repo:        repo,
		Engine:      engine,
		Negotiation: negotiationSvc,
		Workflow:    workflowCtl,
		Market:      marketSim,
		AutoReply:   autoReplySvc,
		Cache:       utils.GetCacheClient(),
	})
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
