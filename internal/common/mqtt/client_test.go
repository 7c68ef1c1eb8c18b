package mqtt

import (
	"testing"

	"rooming-data/internal/common/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewClient_RequiresBroker(t *testing.T) {
	_, err := NewClient(&config.MQTTConfig{}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewClient(nil, nil)
	assert.Error(t, err)
}

func TestNewClient_UnreachableBroker(t *testing.T) {
	_, err := NewClient(&config.MQTTConfig{
		Broker:   "tcp://127.0.0.1:1",
		ClientID: "rooming-data-test",
	}, zap.NewNop())
	assert.Error(t, err)
}
