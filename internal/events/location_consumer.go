package events

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fleetdash/service-fleet/internal/kafka"
	"github.com/fleetdash/service-fleet/internal/live"
	"github.com/fleetdash/service-fleet/internal/metrics"
)

// PositionMirror is the optional cross-instance mirror for live positions.
type PositionMirror interface {
	Set(ctx context.Context, pos live.Position) error
}

// LocationConsumer listens to the vehicle location topic and feeds the live
// position store and websocket hub.
type LocationConsumer struct {
	consumer  *kafka.Consumer
	store     *live.Store
	hub       *live.Hub
	mirror    PositionMirror
	collector *metrics.Collector
	logger    *zap.Logger
}

// NewLocationConsumer creates a new LocationConsumer. mirror may be nil when
// Redis is disabled; collector may be nil.
func NewLocationConsumer(
	brokers []string,
	groupID, topic string,
	store *live.Store,
	hub *live.Hub,
	mirror PositionMirror,
	collector *metrics.Collector,
	logger *zap.Logger,
) *LocationConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, topic, logger)
	return &LocationConsumer{
		consumer:  consumer,
		store:     store,
		hub:       hub,
		mirror:    mirror,
		collector: collector,
		logger:    logger,
	}
}

// Start begins consuming location messages. This blocks until the context is
// cancelled.
func (c *LocationConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *LocationConsumer) Close() error {
	return c.consumer.Close()
}

func (c *LocationConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var loc BusLocation
	if err := json.Unmarshal(msg.Value, &loc); err != nil {
		c.logger.Error("failed to parse location message",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		c.dropped()
		return nil // Don't retry malformed messages
	}

	if loc.BusNumber == "" {
		c.logger.Debug("ignoring location without bus number")
		c.dropped()
		return nil
	}

	pos := live.Position{
		BusNumber: loc.BusNumber,
		Lat:       loc.Lat,
		Lng:       loc.Lng,
		HDOP:      loc.HDOP,
		UpdatedAt: time.Now().UTC(),
	}

	c.store.Upsert(pos)
	c.hub.Broadcast(pos)
	if c.collector != nil {
		c.collector.LocationsReceived.Inc()
		c.collector.TrackedBuses.Set(float64(c.store.Len()))
	}

	if c.mirror != nil {
		if err := c.mirror.Set(ctx, pos); err != nil {
			c.logger.Warn("failed to mirror position",
				zap.String("bus_number", pos.BusNumber),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (c *LocationConsumer) dropped() {
	if c.collector != nil {
		c.collector.LocationsDropped.Inc()
	}
}
