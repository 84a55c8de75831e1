package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/library-service/internal/events"
)

// publish emits an event. Handler failures never fail the calling operation.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
