package webhookpubsub

import "errors"

var (
	// ErrInvalidTopic is thrown when subscribing for a topic unknown to
	// the ledger.
	ErrInvalidTopic = errors.New("topic is unknown")
	// ErrInvalidEndpoint ...
	ErrInvalidEndpoint = errors.New("webhook endpoint must be a valid URI")
	// ErrSubscriptionNotFound ...
	ErrSubscriptionNotFound = errors.New("subscription not found for the given topic and id")
)
