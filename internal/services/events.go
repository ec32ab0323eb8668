package services

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Routing keys for recipe lifecycle events.
const (
	EventRecipeCreated = "recipe.created"
	EventRecipeUpdated = "recipe.updated"
	EventRecipeDeleted = "recipe.deleted"
)

// EventPublisher sends a message to a broker exchange. It is satisfied by
// *rabbitmq.Client.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// RecipeEvent is the payload of every recipe lifecycle event.
type RecipeEvent struct {
	RecipeID uint `json:"recipe_id"`
	UserID   uint `json:"user_id"`
}

// eventBus publishes after commit. Failures are logged and never returned:
// the write they describe has already happened.
type eventBus struct {
	publisher EventPublisher
	exchange  string
	logger    *zap.Logger
}

func (b eventBus) publish(routingKey string, event RecipeEvent) {
	if b.publisher == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		b.logger.Warn("failed to marshal event", zap.String("routing_key", routingKey), zap.Error(err))
		return
	}
	if err := b.publisher.Publish(b.exchange, routingKey, body); err != nil {
		b.logger.Warn("failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Uint("recipe_id", event.RecipeID),
			zap.Error(err))
	}
}
