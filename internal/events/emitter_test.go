package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		event := NewTaskEvent(TaskCreated, testTask(t), uuid.New())

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		handler1 := &recordingHandler{}
		handler2 := &recordingHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event := NewTaskEvent(TaskCreated, testTask(t), uuid.New())
		assert.NoError(t, emitter.EmitEvent(context.Background(), event))

		assert.Equal(t, []*TaskEvent{event}, handler1.events)
		assert.Equal(t, []*TaskEvent{event}, handler2.events)
	})

	t.Run("failing handler does not stop delivery", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		failing := &recordingHandler{err: errors.New("handler error")}
		second := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(second)

		err := emitter.EmitEvent(context.Background(), NewTaskEvent(TaskDeleted, testTask(t), uuid.New()))

		assert.EqualError(t, err, "handler error")
		assert.Len(t, failing.events, 1)
		assert.Len(t, second.events, 1)
	})
}
