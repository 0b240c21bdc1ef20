//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"gofriends/internal/admin"
	"gofriends/internal/dbsql"
	"gofriends/internal/friendsync"
	"gofriends/internal/notif"
	"gofriends/internal/relationship"
	"gofriends/internal/relationship/handler"
)

func InitializeApplication() (*Application, func(), error) {
	wire.Build(
		ProvideConfig,
		ProvideDatabase,
		dbsql.NewRelationshipRepository,
		dbsql.NewAccountRepository,
		wire.Bind(new(relationship.AccountResolver), new(*dbsql.AccountRepository)),
		dbsql.NewNotificationRepository,
		wire.Bind(new(notif.NotificationStore), new(*dbsql.NotificationRepository)),
		ProvideNotifier,
		ProvideHooks,
		ProvideQueue,
		ProvideCache,
		ProvideEngine,
		ProvideConsumer,
		ProvideResyncer,
		wire.Bind(new(handler.Resyncer), new(*friendsync.Resyncer)),
		wire.Bind(new(admin.Resyncer), new(*friendsync.Resyncer)),
		handler.NewRelationshipHandler,
		ProvideTokenIssuer,
		ProvideRateLimiter,
		ProvideQueueDepth,
		admin.NewHTTPServer,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil, nil
}
