package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/devconnect/devconnect/internal/auth"
	"github.com/devconnect/devconnect/internal/config"
	"github.com/devconnect/devconnect/internal/domain"
	"github.com/devconnect/devconnect/internal/handlers"
	"github.com/devconnect/devconnect/internal/logging"
	"github.com/devconnect/devconnect/internal/messaging"
	"github.com/devconnect/devconnect/internal/notify"
	"github.com/devconnect/devconnect/internal/pubsub"
	"github.com/devconnect/devconnect/internal/realtime"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do/v2"
	"github.com/surrealdb/surrealdb.go"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E   *echo.Echo
	DB  *surrealdb.DB
	Cfg *config.Config
	Bus pubsub.Bus

	authenticator *auth.Authenticator
	bridge        *realtime.Bridge
	emitter       *notify.Emitter

	authHandler         *handlers.AuthHandler
	messageHandler      *handlers.MessageHandler
	notificationHandler *handlers.NotificationHandler
}

// New assembles a Server from the application's service graph.
func New(injector do.Injector) *Server {
	logging.New()

	cfg := do.MustInvoke[*config.Config](injector)

	db, err := do.Invoke[*surrealdb.DB](injector)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Invoking the messaging service also routes the bridge's dispatch side.
	messageService := do.MustInvoke[*messaging.Service](injector)
	notifyService := do.MustInvoke[*notify.Service](injector)
	userStore := do.MustInvoke[domain.UserRepository](injector)
	authenticator := do.MustInvoke[*auth.Authenticator](injector)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	return &Server{
		E:                   e,
		DB:                  db,
		Cfg:                 cfg,
		Bus:                 do.MustInvoke[pubsub.Bus](injector),
		authenticator:       authenticator,
		bridge:              do.MustInvoke[*realtime.Bridge](injector),
		emitter:             do.MustInvoke[*notify.Emitter](injector),
		authHandler:         handlers.NewAuthHandler(userStore, authenticator),
		messageHandler:      handlers.NewMessageHandler(messageService),
		notificationHandler: handlers.NewNotificationHandler(notifyService),
	}
}

// StartSubscribers attaches the bus consumers: presence snapshots and the
// notification emitter. Call once before Start.
func (s *Server) StartSubscribers(ctx context.Context) error {
	if err := s.bridge.StartPresenceUpdates(ctx, s.Bus); err != nil {
		return err
	}
	return s.emitter.Start(ctx, s.Bus)
}
