package service

import (
	"context"
	"time"

	"rooming-data/internal/common/mqtt"
	"rooming-data/internal/debounce"

	"go.uber.org/zap"
)

// Subscriber is the part of the MQTT client the trigger needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topics ...string) error
}

// ReloadTrigger reloads the catalog when a message arrives on topic.
// Messages arriving within the debounce delay cause one reload.
type ReloadTrigger struct {
	sub      Subscriber
	topic    string
	qos      byte
	svc      RoomingListService
	debounce *debounce.Debouncer
	logger   *zap.Logger
}

func NewReloadTrigger(sub Subscriber, topic string, qos byte, svc RoomingListService, delay time.Duration, logger *zap.Logger) *ReloadTrigger {
	return &ReloadTrigger{
		sub:      sub,
		topic:    topic,
		qos:      qos,
		svc:      svc,
		debounce: debounce.New(delay),
		logger:   logger,
	}
}

// Start subscribes. Reloads run with ctx until Stop.
func (t *ReloadTrigger) Start(ctx context.Context) error {
	return t.sub.Subscribe(t.topic, t.qos, func(topic string, payload []byte) error {
		t.logger.Info("Reload requested over MQTT",
			zap.String("topic", topic),
			zap.Int("payload_bytes", len(payload)),
		)
		t.debounce.Schedule(func() {
			if _, err := t.svc.Reload(ctx); err != nil {
				t.logger.Warn("MQTT-triggered reload failed", zap.Error(err))
			}
		})
		return nil
	})
}

func (t *ReloadTrigger) Stop() error {
	t.debounce.Stop()
	return t.sub.Unsubscribe(t.topic)
}
