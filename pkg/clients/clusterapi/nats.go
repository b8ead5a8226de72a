package clusterapi

import (
	"context"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// NewNatsTopics connects to nats and returns a topic factory plus a func to close the connection
func NewNatsTopics(hosts []string, namespace string) (topics func(name string) Topic, closeConnection func(), err error) {
	natsConnection, err := nats.Connect(strings.Join(hosts, ","), nats.Name(namespace))
	if err != nil {
		return nil, nil, errors.Wrap(err, "Failed connecting to nats")
	}

	topics = func(name string) Topic {
		return &natsTopic{connection: natsConnection, subject: namespace + "." + name}
	}

	return topics, natsConnection.Close, nil
}

type natsTopic struct {
	connection *nats.Conn
	subject    string
}

func (t *natsTopic) Publish(ctx context.Context, payload []byte) (err error) {
	return t.connection.Publish(t.subject, payload)
}

func (t *natsTopic) Subscribe(ctx context.Context, handler func(payload []byte)) (unsubscribe func(), err error) {
	// a plain subscription, not a queue group, so every node receives every message
	subscription, err := t.connection.Subscribe(t.subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed subscribing to %v", t.subject)
	}

	return func() {
		if err := subscription.Unsubscribe(); err != nil {
			log.Warn().Err(err).Msgf("Failed unsubscribing from %v", t.subject)
		}
	}, nil
}
