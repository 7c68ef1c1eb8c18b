package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"rooming-data/internal/common/mqtt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSubscriber struct {
	handlers     map[string]mqtt.MessageHandler
	unsubscribed []string
	subErr       error
}

func (f *fakeSubscriber) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	if f.subErr != nil {
		return f.subErr
	}
	if f.handlers == nil {
		f.handlers = map[string]mqtt.MessageHandler{}
	}
	f.handlers[topic] = handler
	return nil
}

func (f *fakeSubscriber) Unsubscribe(topics ...string) error {
	f.unsubscribed = append(f.unsubscribed, topics...)
	return nil
}

func TestReloadTrigger_CoalescesMessages(t *testing.T) {
	repo := &stubRepo{lists: sampleLists()}
	svc := newTestService(repo, RoomingListServiceOptions{})
	sub := &fakeSubscriber{}

	trigger := NewReloadTrigger(sub, "rooming-data/reload", 1, svc, 30*time.Millisecond, zap.NewNop())
	require.NoError(t, trigger.Start(context.Background()))

	h := sub.handlers["rooming-data/reload"]
	require.NotNil(t, h)
	for i := 0; i < 5; i++ {
		require.NoError(t, h("rooming-data/reload", []byte("{}")))
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&repo.invalidated) == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.loads))

	require.NoError(t, trigger.Stop())
	assert.Equal(t, []string{"rooming-data/reload"}, sub.unsubscribed)
}

func TestReloadTrigger_SubscribeError(t *testing.T) {
	sub := &fakeSubscriber{subErr: errors.New("not connected")}
	trigger := NewReloadTrigger(sub, "t", 0, newTestService(&stubRepo{}, RoomingListServiceOptions{}), time.Millisecond, zap.NewNop())
	assert.Error(t, trigger.Start(context.Background()))
}
