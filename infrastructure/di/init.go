//go:build !wireinject
// +build !wireinject

package di

import (
	"context"
	"fmt"

	"canvas-backend/infrastructure/config"
)

// InitializeContainer wires the application graph by hand. It mirrors the
// wire-generated initializer so the service builds without running wire.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	metrics := ProvideMetrics()

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	dynamoClient := ProvideDynamoDBClient(awsCfg)
	eventBridgeClient := ProvideEventBridgeClient(awsCfg)

	dc := ProvideDomainConfig(cfg)
	remote := ProvideRemoteStore(dynamoClient, cfg, logger)
	assets := ProvideAssetStore(dynamoClient, cfg, logger)
	publisher := ProvideEventPublisher(eventBridgeClient, cfg, logger)

	editors := ProvideEditorManager(remote, assets, publisher, dc, metrics, logger)

	hub := ProvideHub(cfg, metrics, logger)
	wsServer := ProvideWebSocketServer(hub, logger)

	commandBus, err := ProvideCommandBus(editors, logger)
	if err != nil {
		return nil, fmt.Errorf("build command bus: %w", err)
	}
	queryBus, err := ProvideQueryBus(editors)
	if err != nil {
		return nil, fmt.Errorf("build query bus: %w", err)
	}

	router := ProvideRouter(commandBus, queryBus, hub, wsServer, metrics, cfg, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Metrics:        metrics,
		RemoteStore:    remote,
		AssetStore:     assets,
		EventPublisher: publisher,
		Editors:        editors,
		Hub:            hub,
		WSServer:       wsServer,
		CommandBus:     commandBus,
		QueryBus:       queryBus,
		Router:         router,
	}, nil
}
