//go:build integration

package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPublisher_Integration(t *testing.T) {
	ctx := context.Background()

	rabbitC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3-management",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rabbitC.Terminate(ctx) })

	host, err := rabbitC.Host(ctx)
	require.NoError(t, err)
	port, err := rabbitC.MappedPort(ctx, "5672")
	require.NoError(t, err)
	url := "amqp://guest:guest@" + host + ":" + port.Port() + "/"

	p, err := NewPublisher(url, "test.community")
	require.NoError(t, err)
	defer p.Close()
	assert.True(t, p.Healthy())

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "registration.*", "test.community", false, nil))
	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	t.Run("routed message is delivered", func(t *testing.T) {
		require.NoError(t, p.PublishEvent(ctx, "registration.created", map[string]string{"event_id": "evt-1"}))

		select {
		case m := <-msgs:
			var body map[string]string
			require.NoError(t, json.Unmarshal(m.Body, &body))
			assert.Equal(t, "evt-1", body["event_id"])
			assert.NotEmpty(t, m.MessageId)
		case <-time.After(5 * time.Second):
			t.Fatal("message not delivered")
		}
	})

	t.Run("unrouted message comes back", func(t *testing.T) {
		err := p.PublishEvent(ctx, "nobody.listens", map[string]string{})
		var nr *NoRouteError
		if err != nil {
			assert.ErrorAs(t, err, &nr)
		}
	})
}
