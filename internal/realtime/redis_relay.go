package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisRelay shares change events between service instances over a Redis
// pub/sub channel. Every instance publishes to the channel and relays what it
// receives into its local Broker.
//
// While the relay is not listening, Publish dispatches locally so subscribers
// on this instance still see their own writes.
type RedisRelay struct {
	client  *redis.Client
	channel string
	broker  *Broker
	log     *logrus.Logger

	pubsub   *redis.PubSub
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  atomic.Bool
	stopped  atomic.Bool
}

func NewRedisRelay(client *redis.Client, channel string, broker *Broker, log *logrus.Logger) *RedisRelay {
	return &RedisRelay{
		client:   client,
		channel:  channel,
		broker:   broker,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// Start subscribes to the channel and begins relaying. Call Stop during shutdown.
func (r *RedisRelay) Start(ctx context.Context) error {
	ps := r.client.Subscribe(ctx, r.channel)
	// Receive waits for the subscription confirmation so no event published
	// right after Start is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return fmt.Errorf("subscribe to %s: %w", r.channel, err)
	}
	r.pubsub = ps
	r.running.Store(true)

	r.wg.Add(1)
	go r.listen(ps.Channel())

	r.log.Infof("Realtime relay listening on %s", r.channel)
	return nil
}

func (r *RedisRelay) listen(messages <-chan *redis.Message) {
	defer r.wg.Done()
	defer r.running.Store(false)

	for {
		select {
		case <-r.stopChan:
			return
		case msg, ok := <-messages:
			if !ok {
				r.log.Warn("Realtime relay channel closed")
				return
			}
			event, err := DecodeEvent([]byte(msg.Payload))
			if err != nil {
				r.log.Warnf("Dropping undecodable realtime message: %+v", err)
				continue
			}
			r.broker.Dispatch(event)
		}
	}
}

// Publish sends event to every instance, this one included.
func (r *RedisRelay) Publish(ctx context.Context, event Event) error {
	if !r.running.Load() {
		r.broker.Dispatch(event)
		return nil
	}

	payload, err := EncodeEvent(event)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.log.Warnf("Failed to publish %s event on %s to redis, dispatching locally: %+v", event.Type, event.Table, err)
		r.broker.Dispatch(event)
	}
	return nil
}

// Stop ends the relay loop. Safe to call multiple times.
func (r *RedisRelay) Stop() {
	if r.stopped.CompareAndSwap(false, true) {
		close(r.stopChan)
		if r.pubsub != nil {
			_ = r.pubsub.Close()
		}
		r.wg.Wait()
		r.log.Info("Realtime relay stopped")
	}
}

func EncodeEvent(event Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode realtime event: %w", err)
	}
	return payload, nil
}

func DecodeEvent(payload []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, fmt.Errorf("decode realtime event: %w", err)
	}
	if event.Table == "" || event.Type == "" {
		return Event{}, fmt.Errorf("realtime event missing table or type")
	}
	return event, nil
}
