package webhookpubsub

import (
	"net/url"

	"github.com/google/uuid"
)

// Webhook is a subscription delivering ledger notifications to an HTTP
// endpoint via POST requests.
type Webhook struct {
	ID         string `json:"id"`
	TopicLabel string `json:"topic"`
	Endpoint   string `json:"endpoint"`
	Secret     string `json:"secret"`
}

func NewWebhook(topic, endpoint, secret string) (*Webhook, error) {
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, ErrInvalidEndpoint
	}
	id := uuid.New().String()
	return &Webhook{id, topic, endpoint, secret}, nil
}

func (h *Webhook) Topic() string {
	return h.TopicLabel
}

func (h *Webhook) Id() string {
	return h.ID
}

func (h *Webhook) NotifyAt() string {
	return h.Endpoint
}

func (h *Webhook) IsSecured() bool {
	return len(h.Secret) > 0
}
