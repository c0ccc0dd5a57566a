package di

import (
	"go.uber.org/zap"

	"canvas-backend/application/commands/bus"
	"canvas-backend/application/ports"
	querybus "canvas-backend/application/queries/bus"
	"canvas-backend/application/services"
	"canvas-backend/infrastructure/config"
	"canvas-backend/infrastructure/messaging/eventbridge"
	"canvas-backend/interfaces/http/rest"
	"canvas-backend/interfaces/websocket"
	"canvas-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	Metrics        *observability.Collector
	RemoteStore    ports.RemoteStore
	AssetStore     ports.AssetStore
	EventPublisher *eventbridge.Publisher
	Editors        *services.EditorManager
	Hub            *websocket.Hub
	WSServer       *websocket.Server
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
	Router         *rest.Router
}

// Shutdown flushes and closes everything that buffers work
func (c *Container) Shutdown() {
	c.Editors.Close()
	c.Hub.Stop()
	c.EventPublisher.Close()
	c.Logger.Sync()
}
