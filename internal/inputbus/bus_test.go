package inputbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribersInOrder(t *testing.T) {
	bus := New()
	var got []string
	bus.Subscribe(func(ev Event) { got = append(got, "first") })
	bus.Subscribe(func(ev Event) { got = append(got, "second") })

	n := bus.Publish(KeyDown{Key: "esc"})

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestUnsubscribeIsScopedAndIdempotent(t *testing.T) {
	bus := New()
	var first, second int
	a := bus.Subscribe(func(Event) { first++ })
	b := bus.Subscribe(func(Event) { second++ })
	require.Equal(t, 2, bus.Len())

	a.Unsubscribe()
	a.Unsubscribe()
	bus.Publish(PointerDown{X: 1, Y: 2})

	assert.False(t, a.Active())
	assert.True(t, b.Active())
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 1, bus.Len())

	b.Unsubscribe()
	assert.Equal(t, 0, bus.Len())
	assert.Equal(t, 0, bus.Publish(KeyDown{Key: "esc"}))
}

func TestHandlerMayUnsubscribeDuringDelivery(t *testing.T) {
	bus := New()
	var sub *Subscription
	calls := 0
	sub = bus.Subscribe(func(Event) {
		calls++
		sub.Unsubscribe()
	})
	other := 0
	bus.Subscribe(func(Event) { other++ })

	bus.Publish(KeyDown{Key: "x"})
	bus.Publish(KeyDown{Key: "x"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, other)
}

func TestNilSubscriptionIsInert(t *testing.T) {
	var sub *Subscription
	assert.NotPanics(t, sub.Unsubscribe)
	assert.False(t, sub.Active())
}
