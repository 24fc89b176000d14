package realtime

import (
	"context"
	"io"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRelayDispatchesLocallyUntilStarted(t *testing.T) {
	log := quietLogger()
	broker := NewBroker(4, log, nil)
	defer broker.Close()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()
	relay := NewRedisRelay(client, "realtime:test", broker, log)

	sub := broker.Subscribe(Filter{Table: TableDemandes, Type: EventAll})
	defer sub.Unsubscribe()

	require.NoError(t, relay.Publish(context.Background(), Event{Table: TableDemandes, Type: EventInsert}))

	select {
	case e := <-sub.Events():
		assert.Equal(t, EventInsert, e.Type)
	default:
		t.Fatal("expected a local dispatch")
	}

	relay.Stop()
	relay.Stop()
}

func TestDecodeEventRejectsIncompletePayloads(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"table":"demandes"}`))
	assert.Error(t, err)

	_, err = DecodeEvent([]byte(`not json`))
	assert.Error(t, err)
}
