package rabbitmq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublisher_NotConnected(t *testing.T) {
	p := &Publisher{exchange: DefaultExchange}

	assert.ErrorIs(t, p.PublishEvent(context.Background(), "registration.created", map[string]string{"a": "b"}), ErrNotReady)
	assert.False(t, p.Healthy())
	assert.NoError(t, p.Close())
}

func TestPublisher_RejectsBadInput(t *testing.T) {
	p := &Publisher{exchange: DefaultExchange}

	assert.EqualError(t, p.PublishEvent(context.Background(), "", nil), "missing routingKey")

	err := p.PublishEvent(context.Background(), "registration.created", make(chan int))
	assert.ErrorContains(t, err, "encode registration.created")
}

func TestNoRouteError(t *testing.T) {
	var err error = &NoRouteError{RoutingKey: "event.published"}
	assert.Equal(t, "NO_ROUTE: event.published", err.Error())
}
