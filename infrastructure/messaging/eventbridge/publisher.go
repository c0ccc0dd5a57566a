package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/events"
)

// Publisher implements ports.EventPublisher on AWS EventBridge. Events are
// buffered in memory and flushed by a background worker so canvas mutations
// never wait on the bus.
type Publisher struct {
	client       *eventbridge.Client
	eventBusName string
	source       string
	logger       *zap.Logger

	queue   chan events.DomainEvent
	done    chan struct{}
	stopped chan struct{}
}

const (
	queueDepth    = 1024
	flushInterval = 2 * time.Second
	// EventBridge caps PutEvents at 10 entries
	maxBatch = 10
)

// NewPublisher creates and starts a new publisher
func NewPublisher(client *eventbridge.Client, eventBusName, source string, logger *zap.Logger) *Publisher {
	p := &Publisher{
		client:       client,
		eventBusName: eventBusName,
		source:       source,
		logger:       logger,
		queue:        make(chan events.DomainEvent, queueDepth),
		done:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}
	go p.loop()
	return p
}

// Publish enqueues an event for background delivery. When the buffer is
// full the event is dropped with a warning; notification events are not
// worth blocking an edit for.
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	select {
	case p.queue <- event:
		return nil
	default:
		p.logger.Warn("event queue full, dropping event",
			zap.String("event_type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()))
		return nil
	}
}

// Close flushes buffered events and stops the worker
func (p *Publisher) Close() {
	close(p.done)
	<-p.stopped
}

func (p *Publisher) loop() {
	defer close(p.stopped)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	var pending []events.DomainEvent
	flush := func() {
		if len(pending) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		p.putEvents(ctx, pending)
		cancel()
		pending = pending[:0]
	}

	for {
		select {
		case <-p.done:
			for {
				select {
				case ev := <-p.queue:
					pending = append(pending, ev)
				default:
					flush()
					return
				}
			}
		case ev := <-p.queue:
			pending = append(pending, ev)
			if len(pending) >= maxBatch {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (p *Publisher) putEvents(ctx context.Context, domainEvents []events.DomainEvent) {
	for i := 0; i < len(domainEvents); i += maxBatch {
		end := i + maxBatch
		if end > len(domainEvents) {
			end = len(domainEvents)
		}
		p.putBatch(ctx, domainEvents[i:end])
	}
}

func (p *Publisher) putBatch(ctx context.Context, batch []events.DomainEvent) {
	entries := make([]types.PutEventsRequestEntry, 0, len(batch))
	for _, event := range batch {
		detail, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("failed to marshal event",
				zap.String("event_type", event.GetEventType()),
				zap.Error(err))
			continue
		}

		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(p.source),
			DetailType:   aws.String(event.GetEventType()),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(event.GetTimestamp()),
			Resources: []string{
				fmt.Sprintf("arn:aws:canvas::%s", event.GetAggregateID()),
			},
		})
	}
	if len(entries) == 0 {
		return
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		p.logger.Warn("failed to publish events", zap.Int("count", len(entries)), zap.Error(err))
		return
	}

	if result.FailedEntryCount > 0 {
		for i, entry := range result.Entries {
			if entry.ErrorCode != nil {
				p.logger.Warn("event rejected by bus",
					zap.String("event_type", batch[i].GetEventType()),
					zap.String("error_code", aws.ToString(entry.ErrorCode)),
					zap.String("error_message", aws.ToString(entry.ErrorMessage)))
			}
		}
	}
}

var _ ports.EventPublisher = (*Publisher)(nil)
