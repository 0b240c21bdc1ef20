package wire

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gofriends/internal/admin"
	"gofriends/internal/common"
	"gofriends/internal/config"
	"gofriends/internal/dbmongo"
	"gofriends/internal/dbsql"
	"gofriends/internal/friendsync"
	"gofriends/internal/hooks"
	"gofriends/internal/notif"
	"gofriends/internal/relationship"
	"gofriends/internal/relationship/handler"
	"gofriends/pkg/logger"
)

type Application struct {
	Config   *config.Config
	DB       *gorm.DB
	Engine   *relationship.Engine
	Queue    friendsync.Queue
	Consumer *friendsync.Consumer
	Resyncer *friendsync.Resyncer
	Notifier *notif.Manager
	Handler  *handler.RelationshipHandler
	Admin    *admin.HTTPServer
	Issuer   *common.TokenIssuer
	Limiter  common.RateLimiter
}

// StartConsumers drains the sync queue into the store. Only the master node
// writes to the store.
func (a *Application) StartConsumers(ctx context.Context) {
	if !a.Config.Sync.Master {
		logger.Info("Not the master node, sync consumers disabled")
		return
	}
	a.Queue.Start(ctx, a.Consumer.Handle)
}

func ProvideConfig() (*config.Config, error) {
	return config.LoadConfig()
}

func ProvideDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := dbsql.NewDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := dbsql.AutoMigrate(db); err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func ProvideNotifier(store notif.NotificationStore, resolver relationship.AccountResolver) (*notif.Manager, func()) {
	m := notif.NewManager(4, 1000)
	m.Subscribe(notif.LogObserver{})
	m.Subscribe(notif.NewDatabaseObserver(store, resolver))
	return m, m.Shutdown
}

func ProvideHooks() *hooks.Registry {
	r := hooks.NewRegistry()
	hooks.RegisterActivityLog(r)
	return r
}

func ProvideQueue(cfg *config.Config) (friendsync.Queue, func(), error) {
	switch cfg.Sync.Backend {
	case "mongo":
		client, err := dbmongo.NewMongoConnection(cfg)
		if err != nil {
			return nil, nil, err
		}
		q := dbmongo.NewIntentQueue(client, cfg.Sync)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := q.EnsureIndexes(ctx); err != nil {
			_ = client.Close(context.Background())
			return nil, nil, err
		}

		cleanup := func() {
			_ = q.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(ctx)
		}
		return q, cleanup, nil
	case "memory", "":
		q := friendsync.NewMemoryQueue(cfg.Sync.Shards, cfg.Sync.BufferSize, cfg.Sync.EnqueueTimeout)
		return q, func() { _ = q.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported sync backend %q", cfg.Sync.Backend)
	}
}

func ProvideCache() relationship.Cache {
	return relationship.NewMemoryCache()
}

func ProvideEngine(cache relationship.Cache, queue friendsync.Queue, notifier *notif.Manager, registry *hooks.Registry) *relationship.Engine {
	return relationship.NewEngine(cache, queue, notifier, registry)
}

func ProvideConsumer(store friendsync.Store, cfg *config.Config) *friendsync.Consumer {
	return friendsync.NewConsumer(store, friendsync.ConsumerConfig{
		MaxRetries: cfg.Sync.MaxRetries,
		RetryDelay: cfg.Sync.RetryDelay,
	})
}

func ProvideResyncer(store friendsync.Store, cache relationship.Cache) *friendsync.Resyncer {
	return friendsync.NewResyncer(store, cache)
}

func ProvideTokenIssuer(cfg *config.Config) *common.TokenIssuer {
	return common.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}

func ProvideRateLimiter(cfg *config.Config) common.RateLimiter {
	return common.NewKeyedRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst, 10*time.Minute)
}

func ProvideQueueDepth(queue friendsync.Queue) admin.DepthFunc {
	switch q := queue.(type) {
	case *friendsync.MemoryQueue:
		return func(context.Context) (int64, error) { return int64(q.Depth()), nil }
	case *dbmongo.IntentQueue:
		return q.Depth
	default:
		return nil
	}
}
