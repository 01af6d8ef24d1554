package app

import (
	"context"

	"github.com/devconnect/devconnect/internal/auth"
	"github.com/devconnect/devconnect/internal/config"
	"github.com/devconnect/devconnect/internal/database"
	"github.com/devconnect/devconnect/internal/domain"
	"github.com/devconnect/devconnect/internal/messaging"
	"github.com/devconnect/devconnect/internal/notify"
	"github.com/devconnect/devconnect/internal/presence"
	"github.com/devconnect/devconnect/internal/pubsub"
	"github.com/devconnect/devconnect/internal/realtime"
	"github.com/samber/do/v2"
	"github.com/surrealdb/surrealdb.go"
)

// New builds the application's service graph. Services are lazy: nothing
// connects or allocates until the server invokes it.
func New() do.Injector {
	injector := do.New()

	do.Provide(injector, func(do.Injector) (*config.Config, error) {
		return config.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*surrealdb.DB, error) {
		return database.NewDB(context.Background(), do.MustInvoke[*config.Config](i))
	})

	do.Provide(injector, func(i do.Injector) (domain.UserRepository, error) {
		return database.NewUserStore(do.MustInvoke[*surrealdb.DB](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (domain.MessageRepository, error) {
		return database.NewMessageStore(do.MustInvoke[*surrealdb.DB](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (domain.NotificationRepository, error) {
		return database.NewNotificationStore(do.MustInvoke[*surrealdb.DB](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*auth.Authenticator, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return auth.NewAuthenticator(cfg.JWTSecret, cfg.TokenTTL), nil
	})

	do.Provide(injector, func(do.Injector) (*presence.Registry, error) {
		return presence.NewRegistry(), nil
	})

	do.Provide(injector, func(do.Injector) (pubsub.Bus, error) {
		return pubsub.NewWatermillBus(), nil
	})

	do.Provide(injector, func(i do.Injector) (*realtime.Bridge, error) {
		return realtime.NewBridge(
			do.MustInvoke[*presence.Registry](i),
			do.MustInvoke[*auth.Authenticator](i),
			do.MustInvoke[pubsub.Bus](i),
		), nil
	})

	// The bridge is the delivery side of the messaging service and the
	// service is the dispatch target of the bridge; Route closes the loop.
	do.Provide(injector, func(i do.Injector) (*messaging.Service, error) {
		bridge := do.MustInvoke[*realtime.Bridge](i)
		service := messaging.NewService(
			do.MustInvoke[domain.MessageRepository](i),
			do.MustInvoke[domain.UserRepository](i),
			bridge,
		)
		bridge.Route(service)
		return service, nil
	})

	do.Provide(injector, func(i do.Injector) (*notify.Service, error) {
		return notify.NewService(
			do.MustInvoke[domain.NotificationRepository](i),
			do.MustInvoke[pubsub.Bus](i),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*notify.Emitter, error) {
		return notify.NewEmitter(do.MustInvoke[*realtime.Bridge](i)), nil
	})

	return injector
}
