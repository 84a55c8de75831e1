package worker

import (
	"sort"

	"go.uber.org/zap"

	"github.com/spec-kit/library-service/internal/events"
	"github.com/spec-kit/library-service/internal/service"
)

// StartNotificationWorker subscribes the notifier to every library event it
// handles and returns the subscribed event types in a stable order.
// Dispatch is synchronous, so handlers run on the publishing request.
func StartNotificationWorker(dispatcher events.Dispatcher, notifier *service.NotificationService, logger *zap.Logger) []events.EventType {
	if dispatcher == nil || notifier == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	handlers := notifier.Handlers()
	types := make([]events.EventType, 0, len(handlers))
	for eventType := range handlers {
		types = append(types, eventType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	names := make([]string, 0, len(types))
	for _, eventType := range types {
		dispatcher.Subscribe(eventType, handlers[eventType])
		names = append(names, string(eventType))
	}
	logger.Info("notification worker started", zap.Strings("events", names))
	return types
}
