package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	exchanges  []string
	declareErr error
	publishErr error
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return f.declareErr
}

func (f *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.exchanges = append(f.exchanges, exchange)
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestNewClientDeclaresTopicExchange(t *testing.T) {
	ch := &fakeChannel{}
	client, err := newClientWithChannel(ch, "products")
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, []string{"products:topic"}, ch.declared)
}

func TestNewClientDeclareFailureClosesChannel(t *testing.T) {
	ch := &fakeChannel{declareErr: errors.New("access refused")}
	client, err := newClientWithChannel(ch, "products")
	assert.Nil(t, client)
	assert.ErrorContains(t, err, "failed to declare exchange products")
	assert.True(t, ch.closed)
}

func TestPublishWrapsPayloadInEvent(t *testing.T) {
	ch := &fakeChannel{}
	client, err := newClientWithChannel(ch, "products")
	require.NoError(t, err)

	payload := map[string]any{"id": 1, "name": "Monitor"}
	require.NoError(t, client.Publish("product.created", payload))

	require.Len(t, ch.published, 1)
	msg := ch.published[0]
	assert.Equal(t, "products", ch.exchanges[0])
	assert.Equal(t, "product.created", ch.keys[0])
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.NotEmpty(t, msg.MessageId)

	var event Event
	require.NoError(t, json.Unmarshal(msg.Body, &event))
	assert.Equal(t, msg.MessageId, event.ID)
	assert.Equal(t, "product.created", event.Type)
	assert.Equal(t, "Monitor", event.Payload.(map[string]any)["name"])
}

func TestPublishError(t *testing.T) {
	ch := &fakeChannel{}
	client, err := newClientWithChannel(ch, "products")
	require.NoError(t, err)

	ch.publishErr = errors.New("channel closed")
	err = client.Publish("product.deleted", nil)
	assert.ErrorContains(t, err, "failed to publish product.deleted")
}

func TestCloseWithoutConnection(t *testing.T) {
	ch := &fakeChannel{}
	client, err := newClientWithChannel(ch, "products")
	require.NoError(t, err)

	assert.NoError(t, client.Close())
	assert.True(t, ch.closed)
}
