package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gofriends/internal/config"
	"gofriends/internal/friendsync"
	"gofriends/internal/relationship"
	"gofriends/pkg/logger"
)

const IntentCollection = "sync_intents"

var ErrQueueClosed = errors.New("intent queue closed")

var _ friendsync.Queue = (*IntentQueue)(nil)

type intentDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	IntentID  string             `bson:"intent_id"`
	Shard     int                `bson:"shard"`
	Task      string             `bson:"task"`
	Actor     int64              `bson:"actor"`
	Target    int64              `bson:"target"`
	QueuedAt  time.Time          `bson:"queued_at"`
	Attempts  int                `bson:"attempts"`
	LastError string             `bson:"last_error,omitempty"`
}

func newIntentDocument(intent relationship.SyncIntent, shards int) intentDocument {
	return intentDocument{
		ID:       primitive.NewObjectID(),
		IntentID: intent.ID,
		Shard:    friendsync.ShardFor(intent.Actor, shards),
		Task:     string(intent.Task),
		Actor:    int64(intent.Actor),
		Target:   int64(intent.Target),
		QueuedAt: intent.QueuedAt.UTC(),
	}
}

func (d intentDocument) intent() relationship.SyncIntent {
	return relationship.SyncIntent{
		ID:       d.IntentID,
		Task:     relationship.Task(d.Task),
		Actor:    relationship.AccountID(d.Actor),
		Target:   relationship.AccountID(d.Target),
		QueuedAt: d.QueuedAt,
	}
}

// IntentQueue is a durable sync queue. Each shard is drained by one poller
// in ObjectID order; a document is deleted only after its handler succeeds,
// so delivery is at least once and a failing head blocks its shard.
type IntentQueue struct {
	coll           *mongo.Collection
	shards         int
	enqueueTimeout time.Duration
	pollInterval   time.Duration

	mu     sync.Mutex
	closed bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewIntentQueue(client *MongoClient, cfg config.SyncConfig) *IntentQueue {
	shards := cfg.Shards
	if shards < 1 {
		shards = 1
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = 250 * time.Millisecond
	}
	return &IntentQueue{
		coll:           client.Database.Collection(IntentCollection),
		shards:         shards,
		enqueueTimeout: cfg.EnqueueTimeout,
		pollInterval:   poll,
	}
}

func (q *IntentQueue) EnsureIndexes(ctx context.Context) error {
	_, err := q.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "shard", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create %s index: %w", IntentCollection, err)
	}
	return nil
}

func (q *IntentQueue) Queue(ctx context.Context, intent relationship.SyncIntent) error {
	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()
	if closed {
		return ErrQueueClosed
	}

	if q.enqueueTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.enqueueTimeout)
		defer cancel()
	}

	if _, err := q.coll.InsertOne(ctx, newIntentDocument(intent, q.shards)); err != nil {
		return fmt.Errorf("failed to insert sync intent: %w", err)
	}
	return nil
}

// Start launches one poller per shard.
func (q *IntentQueue) Start(ctx context.Context, handle friendsync.Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || q.cancel != nil {
		return
	}

	ctx, q.cancel = context.WithCancel(ctx)
	for shard := 0; shard < q.shards; shard++ {
		q.wg.Add(1)
		go q.poll(ctx, shard, handle)
	}
	logger.Info("Sync queue started", "backend", "mongo", "shards", q.shards)
}

func (q *IntentQueue) poll(ctx context.Context, shard int, handle friendsync.Handler) {
	defer q.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		doc, err := q.head(ctx, shard)
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			q.sleep(ctx)
			continue
		case err != nil:
			if ctx.Err() == nil {
				logger.Warn("Failed to read sync intent", "shard", shard, "error", err)
			}
			q.sleep(ctx)
			continue
		}

		if herr := handle(ctx, doc.intent()); herr != nil {
			q.markFailed(ctx, doc, herr)
			q.sleep(ctx)
			continue
		}
		q.ack(ctx, doc)
	}
}

func (q *IntentQueue) head(ctx context.Context, shard int) (intentDocument, error) {
	var doc intentDocument
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	err := q.coll.FindOne(ctx, bson.M{"shard": shard}, opts).Decode(&doc)
	return doc, err
}

func (q *IntentQueue) ack(ctx context.Context, doc intentDocument) {
	if _, err := q.coll.DeleteOne(ctx, bson.M{"_id": doc.ID}); err != nil {
		// the intent will be redelivered; store writes are idempotent
		logger.Warn("Failed to ack sync intent", "intent_id", doc.IntentID, "error", err)
	}
}

func (q *IntentQueue) markFailed(ctx context.Context, doc intentDocument, cause error) {
	update := bson.M{
		"$inc": bson.M{"attempts": 1},
		"$set": bson.M{"last_error": cause.Error()},
	}
	if _, err := q.coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, update); err != nil {
		logger.Warn("Failed to record sync intent failure", "intent_id", doc.IntentID, "error", err)
	}
	logger.Error("Sync intent left for redelivery",
		"intent_id", doc.IntentID, "task", doc.Task, "attempts", doc.Attempts+1, "error", cause)
}

func (q *IntentQueue) sleep(ctx context.Context) {
	timer := time.NewTimer(q.pollInterval)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Depth reports how many intents are waiting across all shards.
func (q *IntentQueue) Depth(ctx context.Context) (int64, error) {
	return q.coll.CountDocuments(ctx, bson.M{})
}

// Close stops the pollers. Undelivered intents stay in the collection.
func (q *IntentQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	cancel := q.cancel
	q.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	q.wg.Wait()
	logger.Info("Sync queue shutdown complete", "backend", "mongo")
	return nil
}
