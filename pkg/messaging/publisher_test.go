package messaging

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageEnvelope(t *testing.T) {
	msg := NewMessage("appointment_group.created", map[string]int64{"groupId": 7})

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "appointment_group.created", decoded["type"])
	assert.NotEmpty(t, decoded["occurredAt"])
	assert.Equal(t, 7.0, decoded["payload"].(map[string]interface{})["groupId"])
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), "events", "ignored"))
	assert.NoError(t, p.Close())
}

func TestNewRedisPublisherRejectsBadURL(t *testing.T) {
	_, err := NewRedisPublisher(context.Background(), RedisConfig{URL: "http://localhost:6379"})
	assert.Error(t, err)
}
