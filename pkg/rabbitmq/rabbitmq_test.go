package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublish_WithoutChannel(t *testing.T) {
	c := &Client{}
	err := c.Publish(RecipeExchange, "recipe.created", []byte(`{}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "channel is not available")
}

func TestClose_Idempotent(t *testing.T) {
	c := &Client{}
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestNewClient_BadURL(t *testing.T) {
	_, err := NewClient(Config{URL: "not-a-url"})
	assert.Error(t, err)
}

func TestConfigLogger(t *testing.T) {
	assert.NotNil(t, Config{}.logger())

	core, logs := observer.New(zapcore.InfoLevel)
	Config{Logger: zap.New(core)}.logger().Info("connected")
	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "rabbitmq", entries[0].LoggerName)
	}
}
