package database

import (
	"context"
	"fmt"
	"time"

	"servicebid/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps each collection as a single snapshot document in
// "snapshots" (one per collection key) and each chat thread as a document in
// "chats" with an appended messages array. It matches the Store contract's
// replace-collection semantics rather than row-per-entity storage.
type MongoStore struct {
	snapshots *mongo.Collection
	chats     *mongo.Collection
}

// NewMongoStore creates a Store backed by the given mongo database.
func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	db := client.Database(dbName)
	return &MongoStore{
		snapshots: db.Collection("snapshots"),
		chats:     db.Collection("chats"),
	}
}

func mongoContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func (s *MongoStore) loadSnapshot(key string, dest interface{}) error {
	ctx, cancel := mongoContext()
	defer cancel()

	var doc struct {
		Items bson.Raw `bson:"items"`
	}
	err := s.snapshots.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s snapshot: %w", key, err)
	}
	if err := bson.Unmarshal(doc.Items, dest); err != nil {
		return fmt.Errorf("failed to decode %s snapshot: %w", key, err)
	}
	return nil
}

func (s *MongoStore) replaceSnapshot(key string, items interface{}) error {
	ctx, cancel := mongoContext()
	defer cancel()

	update := bson.M{"$set": bson.M{"items": items, "updatedAt": time.Now()}}
	opts := options.Update().SetUpsert(true)
	if _, err := s.snapshots.UpdateByID(ctx, key, update, opts); err != nil {
		return fmt.Errorf("failed to write %s snapshot: %w", key, err)
	}
	return nil
}

func (s *MongoStore) LoadUsers() ([]models.User, error) {
	var wrapper struct {
		Users []models.User `bson:"users"`
	}
	if err := s.loadSnapshot(keyUsers, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Users, nil
}

func (s *MongoStore) ReplaceUsers(users []models.User) error {
	return s.replaceSnapshot(keyUsers, bson.M{"users": users})
}

func (s *MongoStore) LoadJobs() ([]models.JobRequest, error) {
	var wrapper struct {
		Jobs []models.JobRequest `bson:"jobs"`
	}
	if err := s.loadSnapshot(keyJobs, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Jobs, nil
}

func (s *MongoStore) ReplaceJobs(jobs []models.JobRequest) error {
	return s.replaceSnapshot(keyJobs, bson.M{"jobs": jobs})
}

func (s *MongoStore) LoadProposals() ([]models.Proposal, error) {
	var wrapper struct {
		Proposals []models.Proposal `bson:"proposals"`
	}
	if err := s.loadSnapshot(keyProposals, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Proposals, nil
}

func (s *MongoStore) ReplaceProposals(proposals []models.Proposal) error {
	return s.replaceSnapshot(keyProposals, bson.M{"proposals": proposals})
}

func (s *MongoStore) AppendMessage(threadID string, msg models.ChatMessage) error {
	ctx, cancel := mongoContext()
	defer cancel()

	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.chats.UpdateByID(ctx, threadID, update, opts); err != nil {
		return fmt.Errorf("failed to append to thread %s: %w", threadID, err)
	}
	return nil
}

func (s *MongoStore) ReadThread(threadID string) ([]models.ChatMessage, error) {
	ctx, cancel := mongoContext()
	defer cancel()

	var doc struct {
		Messages []models.ChatMessage `bson:"messages"`
	}
	err := s.chats.FindOne(ctx, bson.M{"_id": threadID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read thread %s: %w", threadID, err)
	}
	return doc.Messages, nil
}

func (s *MongoStore) ReplaceThread(threadID string, msgs []models.ChatMessage) error {
	ctx, cancel := mongoContext()
	defer cancel()

	update := bson.M{"$set": bson.M{"messages": msgs, "updatedAt": time.Now()}}
	opts := options.Update().SetUpsert(true)
	if _, err := s.chats.UpdateByID(ctx, threadID, update, opts); err != nil {
		return fmt.Errorf("failed to rewrite thread %s: %w", threadID, err)
	}
	return nil
}

func (s *MongoStore) ThreadIDs() ([]string, error) {
	ctx, cancel := mongoContext()
	defer cancel()

	cursor, err := s.chats.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode thread id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}
