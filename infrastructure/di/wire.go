//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"ianct-client/infrastructure/config"

	"github.com/google/wire"
)

// BaseSet provides what both apps share.
var BaseSet = wire.NewSet(
	ProvideLogger,
	ProvideTokenStore,
	ProvideWatcher,
	ProvideMetrics,
	ProvideTracing,
	ProvideHTTPClient,
)

// AdminSet wires the admin console.
var AdminSet = wire.NewSet(
	BaseSet,
	ProvideAdminProfile,
	ProvideAdminAPI,
	ProvideAuthStore,
	ProvideAdminNavigator,
	NewAdminContainer,
)

// WorkspaceSet wires the end-user workspace.
var WorkspaceSet = wire.NewSet(
	BaseSet,
	ProvideWorkspaceProfile,
	ProvideWorkspaceAPI,
	ProvideSessionStore,
	ProvideProjectStore,
	ProvideExportWriter,
	ProvideTextStore,
	ProvideWorkspaceNavigator,
	NewWorkspaceContainer,
)

// InitializeAdmin creates a fully wired admin container
func InitializeAdmin(ctx context.Context, cfg *config.Config) (*AdminContainer, func(), error) {
	wire.Build(AdminSet)
	return nil, nil, nil // Wire will replace this
}

// InitializeWorkspace creates a fully wired workspace container
func InitializeWorkspace(ctx context.Context, cfg *config.Config) (*WorkspaceContainer, func(), error) {
	wire.Build(WorkspaceSet)
	return nil, nil, nil // Wire will replace this
}
