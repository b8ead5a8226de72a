package clusterapi

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrQueueEmpty is returned by Poll and Take when no item is available
	ErrQueueEmpty = errors.New("The queue is empty")
	// ErrKeyNotFound is returned when a map does not contain the requested key
	ErrKeyNotFound = errors.New("The key can't be found")
	// ErrLockTimeout is returned when a lock can't be acquired before the context ends
	ErrLockTimeout = errors.New("Timed out acquiring lock")
)

// Client gives access to the cluster-wide data structures shared by all build agents
//
//go:generate mockgen -package=clusterapi -destination ./mock.go -source=client.go
type Client interface {
	Queue(name string) Queue
	Map(name string) Map
	Lock(name string) Lock
	Topic(name string) Topic
	// Members returns the addresses of all nodes currently connected to the cluster
	Members(ctx context.Context) (members []string, err error)
	LocalMember() string
	Close() error
}

// Queue is a cluster-wide FIFO queue of opaque items
type Queue interface {
	Offer(ctx context.Context, item []byte) (err error)
	// Poll returns ErrQueueEmpty instead of blocking
	Poll(ctx context.Context) (item []byte, err error)
	// Take blocks up to timeout and returns ErrQueueEmpty when nothing arrived
	Take(ctx context.Context, timeout time.Duration) (item []byte, err error)
	Size(ctx context.Context) (size int, err error)
	// AddListener calls listener each time an item is offered, on any node
	AddListener(ctx context.Context, listener func()) (remove func(), err error)
}

// Map is a cluster-wide map with per key locks
type Map interface {
	Get(ctx context.Context, key string) (value []byte, err error)
	Put(ctx context.Context, key string, value []byte) (err error)
	Remove(ctx context.Context, key string) (err error)
	Keys(ctx context.Context) (keys []string, err error)
	Values(ctx context.Context) (values [][]byte, err error)
	LockKey(ctx context.Context, key string) (unlock func(), err error)
}

// Lock is a cluster-wide mutual exclusion lock
type Lock interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// Topic broadcasts each published payload to every subscriber on every node
type Topic interface {
	Publish(ctx context.Context, payload []byte) (err error)
	Subscribe(ctx context.Context, handler func(payload []byte)) (unsubscribe func(), err error)
}

// NewClientWithTopics returns a Client that keeps queues, maps and locks of c but routes topics through topics
func NewClientWithTopics(c Client, topics func(name string) Topic, closers ...func()) Client {
	return &topicRoutingClient{Client: c, topics: topics, closers: closers}
}

type topicRoutingClient struct {
	Client
	topics  func(name string) Topic
	closers []func()
}

func (c *topicRoutingClient) Topic(name string) Topic {
	return c.topics(name)
}

func (c *topicRoutingClient) Close() error {
	for _, closer := range c.closers {
		closer()
	}
	return c.Client.Close()
}
