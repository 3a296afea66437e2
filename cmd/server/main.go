package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizbattle/config"
	"quizbattle/internal/cache"
	"quizbattle/internal/repository"
	"quizbattle/internal/service"
	"quizbattle/internal/transport/rest"
	"quizbattle/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	cfg := config.Load()

	game, err := config.LoadGame(cfg.GameConfigPath)
	if err != nil {
		logger.Fatal("game config", zap.Error(err))
	}
	logger.Info("game config loaded",
		zap.Int("matchSize", game.MatchSize),
		zap.Int("speed", game.Speed),
		zap.Duration("sweepInterval", game.SweepInterval()))

	// Question bank
	var questionRepo repository.QuestionRepo
	switch cfg.QuestionSource {
	case "file":
		questionRepo = repository.NewFileQuestionRepo(cfg.QuestionFile)

	case "mongo":
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			logger.Fatal("mongodb connect", zap.Error(err))
		}
		defer mongoClient.Disconnect(ctx)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			logger.Fatal("mongodb ping", zap.Error(err))
		}
		logger.Info("connected to MongoDB")
		questionRepo = repository.NewMongoQuestionRepo(mongoClient)

	default:
		logger.Fatal("unknown QUESTION_SOURCE", zap.String("source", cfg.QuestionSource))
	}

	questions, err := service.NewQuestionService(ctx, questionRepo)
	if err != nil {
		logger.Fatal("question bank", zap.Error(err))
	}
	logger.Info("question bank loaded", zap.Int("questions", questions.Count()))

	// Optional Redis win leaderboard
	var leaderboard cache.LeaderboardCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer rdb.Close()
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			logger.Fatal("redis ping", zap.Error(err))
		}
		logger.Info("connected to Redis")
		leaderboard = cache.NewLeaderboardCache(rdb)
	}

	hub := ws.NewHub(logger)
	battle := service.NewBattleService(game, questions, logger)
	battle.SetBroadcaster(hub)
	if leaderboard != nil {
		battle.SetLeaderboard(leaderboard)
	}

	wsHandler := ws.NewHandler(hub, battle, logger)

	router := rest.NewRouter(&rest.Container{
		Battle:      battle,
		Leaderboard: leaderboard,
		WSHub:       hub,
		WSHandler:   wsHandler,
		PublicDir:   cfg.PublicDir,
	})

	// Matchmaking sweep
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go battle.Run(sweepCtx)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	stopSweep()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
