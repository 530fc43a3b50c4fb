package common

import (
	"context"

	"go.uber.org/zap"

	"github.com/junaidrashid-git/storefront-api/events"
)

// Publish sends evt and logs a failure instead of returning it.
func Publish(ctx context.Context, pub events.Publisher, eventType string, payload interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, events.New(eventType, payload)); err != nil {
		zap.L().Warn("publish event failed", zap.String("type", eventType), zap.Error(err))
	}
}
