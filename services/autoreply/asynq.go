package autoreply

import (
	"encoding/json"
	"fmt"
	"time"

	"servicebid/config"

	"github.com/hibiken/asynq"
)

// AsynqScheduler queues deliveries through asynq so scheduled replies survive
// a process restart.
type AsynqScheduler struct {
	client *asynq.Client
}

// NewAsynqScheduler connects a scheduler to the configured queue Redis DB.
func NewAsynqScheduler() *AsynqScheduler {
	return &AsynqScheduler{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		}),
	}
}

func (s *AsynqScheduler) Schedule(payload TaskPayload, delay time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal auto-reply payload: %w", err)
	}
	task := asynq.NewTask(TaskTypeSend, data)
	if _, err := s.client.Enqueue(task, asynq.ProcessIn(delay)); err != nil {
		return fmt.Errorf("failed to enqueue auto-reply: %w", err)
	}
	return nil
}

// Close releases the underlying asynq client.
func (s *AsynqScheduler) Close() error {
	return s.client.Close()
}
