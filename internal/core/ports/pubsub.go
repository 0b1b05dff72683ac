package ports

// AnyTopic subscribes to every notification topic.
const AnyTopic = "*"

// Subscription holds the info of a client subscribed for a topic.
type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// SecurePubSub defines the methods of the notification service used to let
// off-system observers know about ledger state transitions.
type SecurePubSub interface {
	// Subscribe adds a new subscription for the requested topic and
	// returns its id. An optional secret makes deliveries authenticated.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes the client with the given id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns the info of all clients
	// subscribed for a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	// Publish publishes a message for a certain topic. All clients
	// subscribed for such topic will receive the message.
	Publish(topic, message string) error
	// Close gracefully closes the service.
	Close() error
}
