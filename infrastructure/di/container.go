package di

import (
	"context"

	"ianct-client/application/stores"
	"ianct-client/infrastructure/config"
	"ianct-client/infrastructure/export"
	"ianct-client/infrastructure/httpclient"
	"ianct-client/infrastructure/observability"
	"ianct-client/infrastructure/storage"
	"ianct-client/interfaces/api"
	"ianct-client/interfaces/router"

	"go.uber.org/zap"
)

// AdminContainer holds the admin console's dependencies.
type AdminContainer struct {
	Config    *config.Config
	App       config.App
	Logger    *zap.Logger
	Tokens    storage.Store
	Watcher   *storage.Watcher
	Metrics   *observability.Collector
	Tracing   *observability.TracerProvider
	Client    *httpclient.Client
	API       *api.Admin
	Auth      *stores.AuthStore
	Navigator *router.Navigator
}

// WorkspaceContainer holds the end-user workspace's dependencies.
type WorkspaceContainer struct {
	Config    *config.Config
	App       config.App
	Logger    *zap.Logger
	Tokens    storage.Store
	Watcher   *storage.Watcher
	Metrics   *observability.Collector
	Tracing   *observability.TracerProvider
	Client    *httpclient.Client
	API       *api.Workspace
	Session   *stores.SessionStore
	Projects  *stores.ProjectStore
	Texts     *stores.TextStore
	Exporter  *export.Writer
	Navigator *router.Navigator
}

// NewAdminContainer binds the late edges of the graph: the client's 401
// redirect, the reset run by hard redirects and the token watcher.
func NewAdminContainer(
	cfg *config.Config,
	app config.App,
	logger *zap.Logger,
	tokens storage.Store,
	watcher *storage.Watcher,
	metrics *observability.Collector,
	tracing *observability.TracerProvider,
	client *httpclient.Client,
	a *api.Admin,
	auth *stores.AuthStore,
	nav *router.Navigator,
) *AdminContainer {
	client.BindRedirector(nav)
	nav.OnReset(auth.Reload)
	watchSession(watcher, app, nav, auth.Reload, logger)

	return &AdminContainer{
		Config:    cfg,
		App:       app,
		Logger:    logger,
		Tokens:    tokens,
		Watcher:   watcher,
		Metrics:   metrics,
		Tracing:   tracing,
		Client:    client,
		API:       a,
		Auth:      auth,
		Navigator: nav,
	}
}

// NewWorkspaceContainer is NewAdminContainer for the workspace. A hard
// redirect also drops the project and text caches.
func NewWorkspaceContainer(
	cfg *config.Config,
	app config.App,
	logger *zap.Logger,
	tokens storage.Store,
	watcher *storage.Watcher,
	metrics *observability.Collector,
	tracing *observability.TracerProvider,
	client *httpclient.Client,
	w *api.Workspace,
	session *stores.SessionStore,
	projects *stores.ProjectStore,
	texts *stores.TextStore,
	exporter *export.Writer,
	nav *router.Navigator,
) *WorkspaceContainer {
	client.BindRedirector(nav)
	nav.OnReset(session.Reload)
	nav.OnReset(projects.Reset)
	nav.OnReset(texts.Reset)
	watchSession(watcher, app, nav, session.Reload, logger)

	return &WorkspaceContainer{
		Config:    cfg,
		App:       app,
		Logger:    logger,
		Tokens:    tokens,
		Watcher:   watcher,
		Metrics:   metrics,
		Tracing:   tracing,
		Client:    client,
		API:       w,
		Session:   session,
		Projects:  projects,
		Texts:     texts,
		Exporter:  exporter,
		Navigator: nav,
	}
}

// watchSession reloads the session when another process changes this app's
// token, and sends the user to login when the token was removed.
func watchSession(watcher *storage.Watcher, app config.App, nav *router.Navigator, reload func(), logger *zap.Logger) {
	if watcher == nil {
		return
	}
	watcher.OnChange(func(change storage.Change) {
		if change.Key != app.TokenKey {
			return
		}
		logger.Info("Token changed in another process",
			zap.String("key", change.Key),
			zap.Bool("deleted", change.Deleted),
		)
		if !change.Deleted {
			reload()
			return
		}
		current := nav.CurrentPath()
		if current == "" || current == app.LoginPath {
			reload()
			return
		}
		if err := nav.HardRedirect(context.Background(), app.LoginPath); err != nil {
			logger.Warn("Redirect after logout failed", zap.Error(err))
		}
	})
}
