package di

import (
	"context"
	"fmt"
	"time"

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

// ProvideLogger creates the logger. Output goes to stderr because the
// shell owns stdout.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Logging.Format != "" {
		zcfg.Encoding = cfg.Logging.Format
	}
	if level, err := zap.ParseAtomicLevel(cfg.Logging.Level); err == nil {
		zcfg.Level = level
	}
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// ProvideTokenStore opens the configured token store.
func ProvideTokenStore(cfg *config.Config, logger *zap.Logger) (storage.Store, func(), error) {
	store, err := storage.Open(cfg.Storage, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open token store: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close token store", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

// ProvideWatcher watches the file token store so that a login or logout in
// another process is picked up. It returns nil for other drivers or when
// watching is disabled.
func ProvideWatcher(cfg *config.Config, tokens storage.Store, logger *zap.Logger) (*storage.Watcher, func(), error) {
	fileStore, ok := tokens.(*storage.FileStore)
	if !ok || !cfg.Storage.Watch {
		return nil, func() {}, nil
	}
	watcher, err := storage.NewWatcher(fileStore, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to watch token store: %w", err)
	}
	return watcher, watcher.Stop, nil
}

// ProvideMetrics returns nil when metrics are disabled; the collector's
// methods accept a nil receiver.
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return observability.NewCollector(cfg.Metrics.Namespace)
}

// ProvideTracing sets up tracing and flushes it on cleanup.
func ProvideTracing(cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	tp, err := observability.InitTracing(cfg.Tracing, cfg.Environment)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Failed to shut down tracing", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideHTTPClient creates the app's API client.
func ProvideHTTPClient(
	cfg *config.Config,
	app config.App,
	tokens storage.Store,
	logger *zap.Logger,
	metrics *observability.Collector,
	tracing *observability.TracerProvider,
) *httpclient.Client {
	return httpclient.New(httpclient.Options{
		BaseURL:   cfg.BaseURL(),
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent + "/" + app.Name,
		TokenKey:  app.TokenKey,
		LoginPath: app.LoginPath,
	}, tokens, logger, metrics, tracing)
}

func ProvideAdminProfile() config.App {
	return config.AdminApp
}

func ProvideWorkspaceProfile() config.App {
	return config.WorkspaceApp
}

func ProvideAdminAPI(client *httpclient.Client) *api.Admin {
	return api.NewAdmin(client)
}

func ProvideWorkspaceAPI(client *httpclient.Client) *api.Workspace {
	return api.NewWorkspace(client)
}

func ProvideAuthStore(a *api.Admin, tokens storage.Store, app config.App, logger *zap.Logger) *stores.AuthStore {
	return stores.NewAuthStore(a.Auth, tokens, app.TokenKey, logger)
}

func ProvideSessionStore(w *api.Workspace, tokens storage.Store, app config.App, logger *zap.Logger) *stores.SessionStore {
	return stores.NewSessionStore(w.Auth, w.Profile, tokens, app.TokenKey, logger)
}

func ProvideProjectStore(w *api.Workspace, logger *zap.Logger) *stores.ProjectStore {
	return stores.NewProjectStore(w.Projects, logger)
}

func ProvideExportWriter(logger *zap.Logger) *export.Writer {
	return export.NewWriter(logger)
}

func ProvideTextStore(w *api.Workspace, writer *export.Writer, logger *zap.Logger) *stores.TextStore {
	return stores.NewTextStore(stores.TextClientsFrom(w), writer, logger)
}

// ProvideAdminNavigator builds the admin route table and guard.
func ProvideAdminNavigator(auth *stores.AuthStore, app config.App, logger *zap.Logger, metrics *observability.Collector) *router.Navigator {
	guardCfg := router.AdminGuardConfig()
	guardCfg.LoginPath = app.LoginPath
	guardCfg.DashboardPath = app.DashboardPath
	guard := router.NewGuard(auth, guardCfg, logger)
	return router.NewNavigator(router.NewTable(router.AdminRoutes()), guard, logger, metrics)
}

// ProvideWorkspaceNavigator builds the workspace route table and guard.
func ProvideWorkspaceNavigator(session *stores.SessionStore, app config.App, logger *zap.Logger, metrics *observability.Collector) *router.Navigator {
	guardCfg := router.WorkspaceGuardConfig()
	guardCfg.LoginPath = app.LoginPath
	guardCfg.DashboardPath = app.DashboardPath
	guard := router.NewGuard(session, guardCfg, logger)
	return router.NewNavigator(router.NewTable(router.WorkspaceRoutes()), guard, logger, metrics)
}
