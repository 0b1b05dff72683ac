package webhookpubsub

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/zerobond-network/zerobond-daemon/internal/core/application"
	"github.com/zerobond-network/zerobond-daemon/internal/core/ports"
	"github.com/zerobond-network/zerobond-daemon/pkg/circuitbreaker"
)

type webhookService struct {
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker

	lock         sync.RWMutex
	hooksByTopic map[string][]*Webhook
}

// NewWebhookPubSubService returns a SecurePubSub delivering ledger
// notifications to subscribed HTTP endpoints. Deliveries for a topic are
// fanned out concurrently and guarded by a circuit breaker.
func NewWebhookPubSubService(requestTimeout time.Duration) ports.SecurePubSub {
	return &webhookService{
		httpClient:   &http.Client{Timeout: requestTimeout},
		cb:           circuitbreaker.NewCircuitBreaker("webhook"),
		hooksByTopic: map[string][]*Webhook{},
	}
}

func (ws *webhookService) Subscribe(topic, endpoint, secret string) (string, error) {
	if !isKnownTopic(topic) {
		return "", ErrInvalidTopic
	}

	hook, err := NewWebhook(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	ws.lock.Lock()
	defer ws.lock.Unlock()

	ws.hooksByTopic[topic] = append(ws.hooksByTopic[topic], hook)
	return hook.ID, nil
}

func (ws *webhookService) Unsubscribe(topic, id string) error {
	ws.lock.Lock()
	defer ws.lock.Unlock()

	hooks := ws.hooksByTopic[topic]
	for i, hook := range hooks {
		if hook.ID == id {
			ws.hooksByTopic[topic] = append(hooks[:i], hooks[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

func (ws *webhookService) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	ws.lock.RLock()
	defer ws.lock.RUnlock()

	hooks := ws.hooksForTopic(topic)
	subs := make([]ports.Subscription, len(hooks))
	for i, h := range hooks {
		subs[i] = h
	}
	return subs
}

// Publish makes a POST request to every webhook endpoint registered for the
// given topic, those registered for AnyTopic included.
func (ws *webhookService) Publish(topic, message string) error {
	ws.lock.RLock()
	hooks := ws.hooksForTopic(topic)
	ws.lock.RUnlock()

	eg := &errgroup.Group{}
	for i := range hooks {
		hook := hooks[i]
		eg.Go(func() error { return ws.doRequest(hook, message) })
	}
	return eg.Wait()
}

func (ws *webhookService) Close() error {
	ws.httpClient.CloseIdleConnections()
	return nil
}

// hooksForTopic must be called with the lock held.
func (ws *webhookService) hooksForTopic(topic string) []*Webhook {
	hooks := ws.hooksByTopic[topic]
	if topic != ports.AnyTopic {
		hooks = append(hooks, ws.hooksByTopic[ports.AnyTopic]...)
	}
	return hooks
}

func (ws *webhookService) doRequest(hook *Webhook, payload string) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequest(
			http.MethodPost, hook.Endpoint, bytes.NewBufferString(payload),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if hook.IsSecured() {
			token := jwt.New(jwt.SigningMethodHS256)
			tokenString, _ := token.SignedString([]byte(hook.Secret))
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", tokenString))
		}

		resp, err := ws.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf(
				"endpoint %s replied with status %d", hook.Endpoint,
				resp.StatusCode,
			)
		}
		return nil, nil
	})

	return err
}

func isKnownTopic(topic string) bool {
	if topic == ports.AnyTopic {
		return true
	}
	for _, t := range application.Topics() {
		if topic == t {
			return true
		}
	}
	return false
}
