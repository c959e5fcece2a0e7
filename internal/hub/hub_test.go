package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesEverySessionOnTopic(t *testing.T) {
	h := NewHub()

	first := make(Client, 1)
	second := make(Client, 1)
	other := make(Client, 1)
	h.Subscribe(1, first)
	h.Subscribe(1, second)
	h.Subscribe(2, other)

	require.NoError(t, h.Broadcast(1, map[string]string{"message": "hi"}))

	for _, client := range []Client{first, second} {
		select {
		case raw := <-client:
			var msg map[string]string
			require.NoError(t, json.Unmarshal(raw, &msg))
			require.Equal(t, "hi", msg["message"])
		default:
			t.Fatal("subscribed session missed the broadcast")
		}
	}

	select {
	case <-other:
		t.Fatal("broadcast leaked to another user's topic")
	default:
	}
}

func TestBroadcastSkipsFullClient(t *testing.T) {
	h := NewHub()

	full := make(Client) // unbuffered, nothing reading
	open := make(Client, 1)
	h.Subscribe(1, full)
	h.Subscribe(1, open)

	require.NoError(t, h.Broadcast(1, "a"))

	select {
	case <-open:
	default:
		t.Fatal("healthy session should still receive")
	}
}

func TestUnsubscribeClosesChannelAndStopsDelivery(t *testing.T) {
	h := NewHub()

	client := make(Client, 1)
	h.Subscribe(1, client)
	h.Unsubscribe(1, client)

	_, open := <-client
	require.False(t, open)

	require.NoError(t, h.Broadcast(1, "a"))
	require.Empty(t, h.topics)
}

func TestUnsubscribeUnknownClientIsNoop(t *testing.T) {
	h := NewHub()
	h.Unsubscribe(42, make(Client))
}
