package chflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReceive(t *testing.T) {
	t.Run("receives a value from the channel", func(t *testing.T) {
		ch := make(chan int, 1)
		ch <- 42

		v, ok := Receive(context.Background(), ch)
		assert.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("reports a closed channel", func(t *testing.T) {
		ch := make(chan int)
		close(ch)

		v, ok := Receive(context.Background(), ch)
		assert.False(t, ok)
		assert.Zero(t, v)
	})

	t.Run("unblocks on context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, ok := Receive(ctx, make(chan int))
		assert.False(t, ok)
	})
}

func TestSend(t *testing.T) {
	t.Run("delivers to a ready channel", func(t *testing.T) {
		ch := make(chan string, 1)

		ok := Send(context.Background(), ch, "hello")
		assert.True(t, ok)
		assert.Equal(t, "hello", <-ch)
	})

	t.Run("gives up on context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		ok := Send(ctx, make(chan string), "blocked")
		assert.False(t, ok)
	})
}
