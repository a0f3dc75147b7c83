package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"servicebid/config"
	"servicebid/services/autoreply"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitAutoReplyWorker runs the async worker in background.
func InitAutoReplyWorker(svc autoreply.Service) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(autoreply.TaskTypeSend, handleAutoReplyTask(svc))

	go monitorRedisConnection()

	// Start async worker with retry logic.
	go func() {
		log.Println("[AutoReplyWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[AutoReplyWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[AutoReplyWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleAutoReplyTask(svc autoreply.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p autoreply.TaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[AutoReplyHandler] invalid payload: %v", err)
			return err
		}
		if err := svc.Deliver(p); err != nil {
			log.Printf("[AutoReplyHandler] delivery failed for thread %s: %v", p.ThreadID, err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[AutoReplyWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
