package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/library-service/internal/config"
	"github.com/spec-kit/library-service/internal/events"
	"github.com/spec-kit/library-service/internal/service"
)

func TestStartNotificationWorkerSubscribesLibraryEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher()

	types := StartNotificationWorker(dispatcher, service.NewNotificationService(logger, config.NotificationConfig{}), logger)
	assert.Equal(t, []events.EventType{
		events.EventAccountRegistered,
		events.EventBookCreated,
		events.EventBookDeleted,
		events.EventPasswordChanged,
		events.EventReviewAdded,
	}, types)

	started := logs.FilterMessage("notification worker started").All()
	require.Len(t, started, 1)

	require.NoError(t, dispatcher.Publish(context.Background(),
		events.NewEvent(events.EventBookCreated, "admin@library.com", events.BookPayload{BookID: 1, Title: "Dune"})))
	assert.Equal(t, 1, logs.FilterMessage("CatalogChanged").Len())
}

func TestStartNotificationWorkerWithoutDispatcher(t *testing.T) {
	assert.Nil(t, StartNotificationWorker(nil, service.NewNotificationService(nil, config.NotificationConfig{}), nil))
}
