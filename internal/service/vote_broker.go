package service

import (
	"context"
	"sync"

	"github.com/goccy/go-json"
	"github.com/krakosik/runway/internal/client"
	"github.com/krakosik/runway/internal/model"
	"github.com/sirupsen/logrus"
)

const tallyBuffer = 100

// VoteSubscriber receives the tally of every vote cast after it subscribed. Tallies is closed on
// unsubscribe.
type VoteSubscriber struct {
	ID      string
	Tallies chan model.VoteTally
}

// VoteBroker fans vote tallies out to stream subscribers.
type VoteBroker interface {
	Subscribe(id string) (*VoteSubscriber, error)
	Unsubscribe(id string)
	Publish(ctx context.Context, tally model.VoteTally)
	Close() error
}

// newVoteBroker broadcasts through RabbitMQ when a client is configured so every server instance
// sees every vote. Otherwise tallies stay in process.
func newVoteBroker(rabbitClient client.RabbitClient) VoteBroker {
	if rabbitClient == nil {
		return newInMemoryVoteBroker()
	}
	return &rabbitVoteBroker{
		rabbitClient: rabbitClient,
		subscribers:  make(map[string]*VoteSubscriber),
	}
}

type rabbitVoteBroker struct {
	rabbitClient    client.RabbitClient
	subscribers     map[string]*VoteSubscriber
	subscriberMutex sync.Mutex
}

func (b *rabbitVoteBroker) Subscribe(id string) (*VoteSubscriber, error) {
	b.subscriberMutex.Lock()
	defer b.subscriberMutex.Unlock()

	if subscriber, exists := b.subscribers[id]; exists {
		return subscriber, nil
	}

	messages, err := b.rabbitClient.SubscribeToMessages(id)
	if err != nil {
		return nil, err
	}

	subscriber := &VoteSubscriber{
		ID:      id,
		Tallies: make(chan model.VoteTally, tallyBuffer),
	}
	b.subscribers[id] = subscriber

	go func() {
		defer close(subscriber.Tallies)
		for message := range messages {
			var tally model.VoteTally
			if err := json.Unmarshal(message, &tally); err != nil {
				logrus.Errorf("Error unmarshaling vote tally: %v", err)
				continue
			}
			select {
			case subscriber.Tallies <- tally:
			default:
			}
		}
	}()

	return subscriber, nil
}

func (b *rabbitVoteBroker) Unsubscribe(id string) {
	b.subscriberMutex.Lock()
	_, exists := b.subscribers[id]
	delete(b.subscribers, id)
	b.subscriberMutex.Unlock()

	if !exists {
		return
	}
	if err := b.rabbitClient.UnsubscribeFromMessages(id); err != nil {
		logrus.Errorf("Error unsubscribing %s: %v", id, err)
	}
}

func (b *rabbitVoteBroker) Publish(ctx context.Context, tally model.VoteTally) {
	message, err := json.Marshal(tally)
	if err != nil {
		logrus.Errorf("Error marshaling vote tally: %v", err)
		return
	}
	if err := b.rabbitClient.PublishMessage(ctx, message); err != nil {
		logrus.Errorf("Error publishing vote tally: %v", err)
	}
}

func (b *rabbitVoteBroker) Close() error {
	b.subscriberMutex.Lock()
	ids := make([]string, 0, len(b.subscribers))
	for id := range b.subscribers {
		ids = append(ids, id)
	}
	b.subscriberMutex.Unlock()

	for _, id := range ids {
		b.Unsubscribe(id)
	}
	return nil
}

type inMemoryVoteBroker struct {
	subscribers     map[string]*VoteSubscriber
	subscriberMutex sync.RWMutex
}

func newInMemoryVoteBroker() VoteBroker {
	logrus.Warn("Using in-memory vote broker (RabbitMQ not configured)")
	return &inMemoryVoteBroker{
		subscribers: make(map[string]*VoteSubscriber),
	}
}

func (b *inMemoryVoteBroker) Subscribe(id string) (*VoteSubscriber, error) {
	b.subscriberMutex.Lock()
	defer b.subscriberMutex.Unlock()

	if subscriber, exists := b.subscribers[id]; exists {
		return subscriber, nil
	}

	subscriber := &VoteSubscriber{
		ID:      id,
		Tallies: make(chan model.VoteTally, tallyBuffer),
	}
	b.subscribers[id] = subscriber
	return subscriber, nil
}

func (b *inMemoryVoteBroker) Unsubscribe(id string) {
	b.subscriberMutex.Lock()
	defer b.subscriberMutex.Unlock()

	if subscriber, exists := b.subscribers[id]; exists {
		close(subscriber.Tallies)
		delete(b.subscribers, id)
	}
}

// Publish never blocks. A subscriber whose buffer is full misses the tally.
func (b *inMemoryVoteBroker) Publish(_ context.Context, tally model.VoteTally) {
	b.subscriberMutex.RLock()
	defer b.subscriberMutex.RUnlock()

	for _, subscriber := range b.subscribers {
		select {
		case subscriber.Tallies <- tally:
		default:
		}
	}
}

func (b *inMemoryVoteBroker) Close() error {
	b.subscriberMutex.Lock()
	defer b.subscriberMutex.Unlock()

	for id, subscriber := range b.subscribers {
		close(subscriber.Tallies)
		delete(b.subscribers, id)
	}
	return nil
}
