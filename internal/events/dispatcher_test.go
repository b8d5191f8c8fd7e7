package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var seen []string
	boom := errors.New("boom")

	d.Subscribe(EventUserCreated, func(context.Context, Event) error {
		seen = append(seen, "first")
		return boom
	})
	d.Subscribe(EventUserCreated, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.ID)
		return nil
	})
	d.Subscribe(EventUserDeleted, func(context.Context, Event) error {
		seen = append(seen, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{ID: "evt-1", Type: EventUserCreated})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second:evt-1"}, seen)

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventPasswordReset}))
}

func TestDispatcherWildcardAndPanics(t *testing.T) {
	d := NewInMemoryDispatcher()
	var all []EventType

	d.Subscribe(EventUserDeleted, func(context.Context, Event) error {
		panic("handler bug")
	})
	d.SubscribeAll(func(_ context.Context, e Event) error {
		all = append(all, e.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventUserCreated}))
	err := d.Publish(context.Background(), Event{Type: EventUserDeleted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.Equal(t, []EventType{EventUserCreated, EventUserDeleted}, all)
}
