package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"

	"chatapi/internal/api"
	"chatapi/internal/config"
	"chatapi/internal/models"
	"chatapi/internal/repository"
	"chatapi/internal/service"

	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	repo, err := repository.NewPostgresRepo(cfg.Database.ConnString())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize database")
	}
	logger.Info().Msg("Connected to PostgreSQL")

	cacheClient := initRedis(cfg.Redis, logger)
	pageCache := &RedisCache{client: cacheClient, ttl: cfg.Cache.TTL}
	logger.Info().Msg("Connected to Redis")

	words := service.NewWordlist(cfg.Moderation.BannedWords)
	serv := service.NewMessageService(repo, pageCache, words, logger)
	if err := serv.ReloadBannedWords(); err != nil {
		logger.Warn().Err(err).Msg("Banned wordlist load failed, using configured fallback")
	}

	refresher := service.NewWordlistRefresher(serv, cfg.Moderation.RefreshInterval, logger)
	if err := refresher.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start wordlist refresher")
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.CustomRecovery(api.Recovery))
	r.NoRoute(api.NoRoute)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handler := api.NewAPIHandler(serv, cfg.Paging.DefaultLimit, cfg.Paging.MaxLimit)
	handler.RegisterRoutes(r)

	logger.Info().Str("port", cfg.Server.Port).Msg("Server starting")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run server")
	}
}

// RedisCache caches GET result pages and tracks the keys written per session
// so an insert can drop every page of that session at once.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (rc *RedisCache) pageKey(sessionID string, senderType models.SenderType, limit, offset int) string {
	filter := "all"
	if senderType != "" {
		filter = string(senderType)
	}
	return fmt.Sprintf("msgs:%s:%s:%d:%d", sessionID, filter, limit, offset)
}

func (rc *RedisCache) keySetKey(sessionID string) string {
	return "msgs:keys:" + sessionID
}

func (rc *RedisCache) GetPage(sessionID string, senderType models.SenderType, limit, offset int) ([]models.Message, bool) {
	ctx := context.Background()
	data, err := rc.client.Get(ctx, rc.pageKey(sessionID, senderType, limit, offset)).Bytes()
	if err != nil {
		return nil, false
	}
	var msgs []models.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, false
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, true
}

func (rc *RedisCache) StorePage(sessionID string, senderType models.SenderType, limit, offset int, msgs []models.Message) error {
	data, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	ctx := context.Background()
	key := rc.pageKey(sessionID, senderType, limit, offset)
	pipe := rc.client.TxPipeline()
	pipe.Set(ctx, key, data, rc.ttl)
	pipe.SAdd(ctx, rc.keySetKey(sessionID), key)
	pipe.Expire(ctx, rc.keySetKey(sessionID), rc.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (rc *RedisCache) InvalidateSession(sessionID string) error {
	ctx := context.Background()
	keys, err := rc.client.SMembers(ctx, rc.keySetKey(sessionID)).Result()
	if err != nil {
		return err
	}
	keys = append(keys, rc.keySetKey(sessionID))
	return rc.client.Del(ctx, keys...).Err()
}

func initRedis(cfg config.RedisConfig, logger zerolog.Logger) *redis.Client {
	opts := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	client := redis.NewClient(opts)
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	return client
}
