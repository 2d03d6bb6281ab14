package mq

import (
	"context"
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	out    []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.out = append(f.out, published{exchange: exchange, key: key, msg: msg})
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublishJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{ch: ch, exchange: "arenabook.events"}

	err := p.PublishJSON(context.Background(), "booking.approved", map[string]any{"booking_id": 5})
	require.NoError(t, err)
	require.Len(t, ch.out, 1)

	got := ch.out[0]
	assert.Equal(t, "arenabook.events", got.exchange)
	assert.Equal(t, "booking.approved", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	var body map[string]int
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, 5, body["booking_id"])
}

func TestPublishJSONErrors(t *testing.T) {
	ch := &fakeChannel{err: amqp.ErrClosed}
	p := &Publisher{ch: ch, exchange: "x"}

	assert.ErrorIs(t, p.PublishJSON(context.Background(), "k", 1), amqp.ErrClosed)
	assert.Error(t, p.PublishJSON(context.Background(), "k", func() {}))
	assert.Len(t, ch.out, 1)
}

func TestClose(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{ch: ch}
	assert.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
