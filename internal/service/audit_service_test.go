package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/events"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/service"
)

func TestAuditServiceLogsEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, zap.New(core)).RegisterHandlers()

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.Event{ID: "e1", Type: events.EventUserLoggedIn, UserID: 7}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{ID: "e2", Type: events.EventLoginFailed, Email: "a@example.com"}))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "user_logged_in", entries[0].Message)
	assert.Equal(t, int64(7), entries[0].ContextMap()["user_id"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, "a@example.com", entries[1].ContextMap()["email"])
}

func TestAuditServiceWithoutDispatcher(t *testing.T) {
	assert.NotPanics(t, func() {
		service.NewAuditService(nil, zap.NewNop()).RegisterHandlers()
	})
}

func TestAuditServiceNilLogger(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, nil).RegisterHandlers()

	assert.NotPanics(t, func() {
		err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventLoginFailed, Email: "a@example.com"})
		assert.NoError(t, err)
	})
}
