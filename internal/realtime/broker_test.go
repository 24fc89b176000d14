package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case e, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return e
	case <-time.After(time.Second):
		t.Fatalf("no event received")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case e := <-sub.Events():
		t.Fatalf("unexpected event %+v", e)
	default:
	}
}

func TestBrokerRoutesByTableTypeAndRow(t *testing.T) {
	b := NewBroker(8, nil, nil)

	own, err := Filter{Table: "demandes", Type: EventAll}.ParseRowFilter("client_id=eq.c1")
	require.NoError(t, err)
	clientSub := b.Subscribe(own, Filter{Table: "propositions", Type: EventInsert})
	agentSub := b.Subscribe(Filter{Table: "demandes", Type: EventAll})

	mine := Event{Table: "demandes", Type: EventUpdate, Record: map[string]interface{}{"client_id": "c1"}}
	other := Event{Table: "demandes", Type: EventInsert, Record: map[string]interface{}{"client_id": "c2"}}
	offer := Event{Table: "propositions", Type: EventInsert, Record: map[string]interface{}{"demande_id": "d1"}}

	assert.Equal(t, 2, b.Dispatch(mine))
	assert.Equal(t, 1, b.Dispatch(other))
	assert.Equal(t, 1, b.Dispatch(offer))

	assert.Equal(t, mine.Type, receive(t, clientSub).Type)
	assert.Equal(t, "propositions", receive(t, clientSub).Table)
	assertNoEvent(t, clientSub)

	assert.Equal(t, EventUpdate, receive(t, agentSub).Type)
	assert.Equal(t, EventInsert, receive(t, agentSub).Type)
	assertNoEvent(t, agentSub)
}

func TestBrokerDropsWhenBufferFull(t *testing.T) {
	b := NewBroker(1, nil, nil)
	sub := b.Subscribe(Filter{Table: "demandes"})

	e := Event{Table: "demandes", Type: EventInsert}
	assert.Equal(t, 1, b.Dispatch(e))
	assert.Equal(t, 0, b.Dispatch(e))
	receive(t, sub)
}

func TestUnsubscribeClosesChannelOnce(t *testing.T) {
	b := NewBroker(4, nil, nil)
	sub := b.Subscribe(Filter{Table: "demandes"})
	require.Equal(t, 1, b.Len())

	sub.Unsubscribe()
	sub.Unsubscribe()

	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.Dispatch(Event{Table: "demandes", Type: EventInsert}))
}

func TestBrokerCloseReleasesSubscribers(t *testing.T) {
	b := NewBroker(4, nil, nil)
	sub := b.Subscribe(Filter{Table: "demandes"})
	b.Close()

	_, ok := <-sub.Events()
	assert.False(t, ok)

	late := b.Subscribe(Filter{Table: "demandes"})
	_, ok = <-late.Events()
	assert.False(t, ok)
	late.Unsubscribe()
}

func TestBrokerPublishDispatchesLocally(t *testing.T) {
	b := NewBroker(4, nil, nil)
	sub := b.Subscribe(Filter{Table: "pharmacies_garde", Type: EventDelete})

	require.NoError(t, b.Publish(context.Background(), Event{Table: "pharmacies_garde", Type: EventDelete}))
	assert.Equal(t, EventDelete, receive(t, sub).Type)
}
