package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"canvas-backend/application/commands"
	"canvas-backend/application/commands/bus"
	"canvas-backend/application/ports"
	"canvas-backend/application/queries"
	querybus "canvas-backend/application/queries/bus"
	"canvas-backend/application/services"
	domainconfig "canvas-backend/domain/config"
	"canvas-backend/infrastructure/config"
	"canvas-backend/infrastructure/messaging/eventbridge"
	"canvas-backend/infrastructure/persistence/dynamodb"
	"canvas-backend/interfaces/http/rest"
	"canvas-backend/interfaces/websocket"
	"canvas-backend/pkg/observability"
)

// ProvideLogger creates the application logger
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	return observability.NewLogger(cfg.Environment, cfg.LogLevel)
}

// ProvideMetrics creates the metrics collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("canvas")
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideDomainConfig maps service configuration onto the domain's knobs
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	dc := domainconfig.DefaultDomainConfig()
	dc.ThrottleInterval = cfg.ThrottleInterval
	dc.DebounceSettle = cfg.DebounceSettle
	dc.PresenceStaleness = cfg.PresenceStaleness
	return dc
}

// ProvideRemoteStore creates the DynamoDB canvas store
func ProvideRemoteStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.RemoteStore {
	return dynamodb.NewCanvasStore(client, cfg.ObjectsTable, cfg.SnapshotInterval, logger)
}

// ProvideAssetStore creates the asset record store
func ProvideAssetStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.AssetStore {
	return dynamodb.NewAssetStore(client, cfg.ObjectsTable, logger)
}

// ProvideEventPublisher creates the EventBridge publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) *eventbridge.Publisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, cfg.EventBusSource, logger)
}

// ProvideEditorManager creates the per-project editor registry
func ProvideEditorManager(
	remote ports.RemoteStore,
	assets ports.AssetStore,
	publisher *eventbridge.Publisher,
	dc *domainconfig.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.EditorManager {
	return services.NewEditorManager(remote, assets, publisher, dc, metrics, logger)
}

// ProvideHub creates the presence hub
func ProvideHub(cfg *config.Config, metrics *observability.Collector, logger *zap.Logger) *websocket.Hub {
	return websocket.NewHub(cfg.PresenceStaleness, metrics, logger)
}

// ProvideWebSocketServer creates the presence WebSocket server
func ProvideWebSocketServer(hub *websocket.Hub, logger *zap.Logger) *websocket.Server {
	return websocket.NewServer(hub, nil, logger)
}

// ProvideCommandBus creates the command bus and registers every handler
func ProvideCommandBus(editors *services.EditorManager, logger *zap.Logger) (*bus.CommandBus, error) {
	b := bus.NewCommandBus(bus.LoggingMiddleware(logger))

	addHandler := commands.NewAddObjectHandler(editors, logger)
	updateHandler := commands.NewUpdateObjectHandler(editors, logger)
	removeHandler := commands.NewRemoveObjectHandler(editors, logger)
	hierarchyHandler := commands.NewHierarchyHandler(editors, logger)
	selectionHandler := commands.NewSelectionHandler(editors)
	clipboardHandler := commands.NewClipboardHandler(editors, logger)
	reorderHandler := commands.NewReorderObjectHandler(editors)

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{&commands.AddObjectCommand{}, addHandler},
		{&commands.UpdateObjectCommand{}, updateHandler},
		{&commands.BatchUpdateCommand{}, updateHandler},
		{&commands.RemoveObjectCommand{}, removeHandler},
		{&commands.SetParentCommand{}, hierarchyHandler},
		{&commands.GroupObjectsCommand{}, hierarchyHandler},
		{&commands.UngroupObjectsCommand{}, hierarchyHandler},
		{&commands.ToggleLockCommand{}, hierarchyHandler},
		{&commands.ToggleVisibilityCommand{}, hierarchyHandler},
		{&commands.ToggleCollapseCommand{}, hierarchyHandler},
		{&commands.SelectObjectsCommand{}, selectionHandler},
		{&commands.ToggleSelectionCommand{}, selectionHandler},
		{&commands.CopyObjectsCommand{}, clipboardHandler},
		{&commands.PasteObjectsCommand{}, clipboardHandler},
		{&commands.DuplicateObjectsCommand{}, clipboardHandler},
		{&commands.ReorderObjectCommand{}, reorderHandler},
	}
	for _, reg := range registrations {
		if err := b.Register(reg.cmd, reg.handler); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ProvideQueryBus creates the query bus and registers every handler
func ProvideQueryBus(editors *services.EditorManager) (*querybus.QueryBus, error) {
	b := querybus.NewQueryBus()

	sceneHandler := queries.NewSceneQueryHandler(editors)
	for _, q := range []querybus.Query{
		&queries.GetSceneQuery{},
		&queries.GetObjectQuery{},
		&queries.GetChildrenQuery{},
	} {
		if err := b.Register(q, sceneHandler); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	hub *websocket.Hub,
	wsServer *websocket.Server,
	metrics *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(commandBus, queryBus, hub, wsServer, metrics, cfg.EnableCORS, logger)
}
