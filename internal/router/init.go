package router

import (
	app "github.com/radityaputra/tautan/internal/application"
	"github.com/radityaputra/tautan/internal/container"
	repo "github.com/radityaputra/tautan/internal/domain/repository"
	pginfra "github.com/radityaputra/tautan/internal/infrastructure/postgres"
	handlers "github.com/radityaputra/tautan/internal/interface/http"
	"github.com/radityaputra/tautan/internal/router/modules"
)

// buildPublisher prefers the RabbitMQ queue when one is configured and
// falls back to synchronous notification writes otherwise.
func buildPublisher(notifications repo.NotificationRepository) app.EventPublisher {
	if pub := container.GetRabbitPub(); pub != nil {
		return app.NewQueuePublisher(pub)
	}
	return app.NewStorePublisher(notifications)
}

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	follows := pginfra.NewFollowRepository(pool)
	posts := pginfra.NewPostRepository(pool)
	notifications := pginfra.NewNotificationRepository(pool)

	events := buildPublisher(notifications)

	authSvc := app.NewAuthService(users, container.GetJWT(), container.GetRedis(), logger, events)
	userSvc := app.NewUserService(
		users,
		follows,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRedis(),
		logger,
		container.GetES(),
		cfg.ESUsersIndex,
		events,
	)
	postSvc := app.NewPostService(posts, users, container.GetGCS(), cfg.GCSBucket, logger, events)
	notifSvc := app.NewNotificationService(notifications, users, logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), container.GetJWT(), users))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), container.GetJWT(), users))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(postSvc, logger), container.GetJWT(), users))
	r.Add(modules.NewNotificationModule(handlers.NewNotificationHandler(notifSvc, logger), container.GetJWT(), users))
}
