package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"servicebid/models"

	"github.com/go-redis/redis/v8"
)

// Keys under which collections are stored. Chat threads live in one redis
// list per thread under chatKeyPrefix.
const (
	keyUsers       = "users"
	keyJobs        = "jobs"
	keyProposals   = "proposals"
	chatKeyPrefix  = "chat:"
	chatKeyPattern = chatKeyPrefix + "*"
)

// RedisStore persists each collection as one JSON value and each chat thread
// as a redis list, so appends never rewrite the log.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Store backed by the given redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func newContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func (s *RedisStore) loadCollection(key string, dest interface{}) error {
	ctx, cancel := newContext()
	defer cancel()

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) replaceCollection(key string, value interface{}) error {
	ctx, cancel := newContext()
	defer cancel()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) LoadUsers() ([]models.User, error) {
	var users []models.User
	if err := s.loadCollection(keyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *RedisStore) ReplaceUsers(users []models.User) error {
	return s.replaceCollection(keyUsers, users)
}

func (s *RedisStore) LoadJobs() ([]models.JobRequest, error) {
	var jobs []models.JobRequest
	if err := s.loadCollection(keyJobs, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *RedisStore) ReplaceJobs(jobs []models.JobRequest) error {
	return s.replaceCollection(keyJobs, jobs)
}

func (s *RedisStore) LoadProposals() ([]models.Proposal, error) {
	var proposals []models.Proposal
	if err := s.loadCollection(keyProposals, &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

func (s *RedisStore) ReplaceProposals(proposals []models.Proposal) error {
	return s.replaceCollection(keyProposals, proposals)
}

func (s *RedisStore) AppendMessage(threadID string, msg models.ChatMessage) error {
	ctx, cancel := newContext()
	defer cancel()

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message %s: %w", msg.ID, err)
	}
	if err := s.client.RPush(ctx, chatKeyPrefix+threadID, data).Err(); err != nil {
		return fmt.Errorf("failed to append to thread %s: %w", threadID, err)
	}
	return nil
}

func (s *RedisStore) ReadThread(threadID string) ([]models.ChatMessage, error) {
	ctx, cancel := newContext()
	defer cancel()

	raw, err := s.client.LRange(ctx, chatKeyPrefix+threadID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read thread %s: %w", threadID, err)
	}
	msgs := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("failed to decode message in thread %s: %w", threadID, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (s *RedisStore) ReplaceThread(threadID string, msgs []models.ChatMessage) error {
	ctx, cancel := newContext()
	defer cancel()

	key := chatKeyPrefix + threadID
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	for _, msg := range msgs {
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to encode message %s: %w", msg.ID, err)
		}
		pipe.RPush(ctx, key, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to rewrite thread %s: %w", threadID, err)
	}
	return nil
}

func (s *RedisStore) ThreadIDs() ([]string, error) {
	ctx, cancel := newContext()
	defer cancel()

	keys, err := s.client.Keys(ctx, chatKeyPattern).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, key[len(chatKeyPrefix):])
	}
	return ids, nil
}
