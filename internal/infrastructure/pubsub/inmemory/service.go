package inmemorypubsub

import (
	"sync"

	"github.com/google/uuid"
	"github.com/zerobond-network/zerobond-daemon/internal/core/ports"
)

type subscription struct {
	id     string
	topic  string
	target string
}

func (s subscription) Topic() string    { return s.topic }
func (s subscription) Id() string       { return s.id }
func (s subscription) IsSecured() bool  { return false }
func (s subscription) NotifyAt() string { return s.target }

// PubSubService is an in-process SecurePubSub keeping published messages in
// memory. It backs tests and runs without webhook delivery.
type PubSubService struct {
	lock          sync.RWMutex
	subscriptions map[string][]subscription
	published     map[string][]string
}

func NewPubSubService() *PubSubService {
	return &PubSubService{
		subscriptions: map[string][]subscription{},
		published:     map[string][]string{},
	}
}

func (s *PubSubService) Subscribe(topic, endpoint, _ string) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	sub := subscription{uuid.New().String(), topic, endpoint}
	s.subscriptions[topic] = append(s.subscriptions[topic], sub)
	return sub.id, nil
}

func (s *PubSubService) Unsubscribe(topic, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	subs := s.subscriptions[topic]
	for i, sub := range subs {
		if sub.id == id {
			s.subscriptions[topic] = append(subs[:i], subs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *PubSubService) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	s.lock.RLock()
	defer s.lock.RUnlock()

	subs := make([]ports.Subscription, 0, len(s.subscriptions[topic]))
	for _, sub := range s.subscriptions[topic] {
		subs = append(subs, sub)
	}
	return subs
}

func (s *PubSubService) Publish(topic, message string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.published[topic] = append(s.published[topic], message)
	return nil
}

func (s *PubSubService) Close() error {
	return nil
}

// PublishedForTopic returns all messages published so far for a topic.
func (s *PubSubService) PublishedForTopic(topic string) []string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return append([]string{}, s.published[topic]...)
}
