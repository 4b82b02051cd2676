package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(subject string, data []byte) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

func TestForward(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Publishes each update", func(t *testing.T) {
		pub := new(MockPublisher)
		f := NewForwarder(pub, "bharat", logger)

		pub.On("Publish", "bharat.chat.s1.state", mock.MatchedBy(func(data []byte) bool {
			var v map[string]int
			return json.Unmarshal(data, &v) == nil && v["n"] > 0
		})).Return(nil).Twice()

		updates := make(chan map[string]int, 2)
		updates <- map[string]int{"n": 1}
		updates <- map[string]int{"n": 2}
		close(updates)

		unsubscribed := false
		Forward(context.Background(), f, "chat", "s1", updates, func() { unsubscribed = true })

		assert.True(t, unsubscribed)
		pub.AssertExpectations(t)
	})

	t.Run("Publish errors do not stop forwarding", func(t *testing.T) {
		pub := new(MockPublisher)
		f := NewForwarder(pub, "", logger)
		pub.On("Publish", "discovery.d1.state", mock.Anything).Return(errors.New("disconnected")).Once()
		pub.On("Publish", "discovery.d1.state", mock.Anything).Return(nil).Once()

		updates := make(chan int, 2)
		updates <- 1
		updates <- 2
		close(updates)

		Forward(context.Background(), f, "discovery", "d1", updates, func() {})
		pub.AssertNumberOfCalls(t, "Publish", 2)
	})

	t.Run("Stops on context cancel", func(t *testing.T) {
		f := NewForwarder(new(MockPublisher), "p", logger)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			Forward(ctx, f, "chat", "x", make(chan int), func() {})
			close(done)
		}()
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			require.Fail(t, "forwarder did not stop")
		}
	})

	t.Run("Nil forwarder unsubscribes", func(t *testing.T) {
		called := false
		Forward[int](context.Background(), nil, "chat", "x", nil, func() { called = true })
		assert.True(t, called)
	})
}
