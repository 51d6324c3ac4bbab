package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecocharge/backend/services/reservation-service/internal/service"
)

func TestHubPublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := NewConnection("c-1", "admin-1", nil, time.Second, zap.NewNop(), hub.Remove)
	hub.Add(conn)

	for i := 0; i < sendBufferSize+4; i++ {
		hub.Publish(service.Event{Type: service.EventStats, Payload: i})
	}
	require.Len(t, conn.send, sendBufferSize)

	var first map[string]any
	require.NoError(t, json.Unmarshal(<-conn.send, &first))
	assert.Equal(t, "stats", first["type"])
	assert.EqualValues(t, 0, first["payload"])
}

func TestHubCloseAllRemovesConnections(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := NewConnection("a", "admin-1", nil, time.Second, zap.NewNop(), hub.Remove)
	b := NewConnection("b", "admin-2", nil, time.Second, zap.NewNop(), hub.Remove)
	hub.Add(a)
	hub.Add(b)
	require.Equal(t, 2, hub.Count())

	hub.CloseAll()
	assert.Equal(t, 0, hub.Count())

	a.Send([]byte("late"))
	assert.Empty(t, a.send)
	a.Close()
}
