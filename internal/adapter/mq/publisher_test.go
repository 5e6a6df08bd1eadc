package mq

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage("storefront", map[string]string{"event": "booking.created", "id": "b1"})
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)
	assert.Equal(t, "storefront", msg.AppId)
	assert.NotEmpty(t, msg.MessageId)
	assert.JSONEq(t, `{"event":"booking.created","id":"b1"}`, string(msg.Body))
}

func TestNewMessageRejectsUnencodable(t *testing.T) {
	_, err := NewMessage("storefront", make(chan int))
	assert.Error(t, err)
}

func TestNewPublisherBadURL(t *testing.T) {
	_, err := NewPublisher("amqp://127.0.0.1:1/", "bookings", "storefront")
	assert.Error(t, err)
}
