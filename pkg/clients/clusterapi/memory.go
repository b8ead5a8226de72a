package clusterapi

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// MemoryCluster holds shared in-process state; every Join returns a Client acting as a separate node
type MemoryCluster struct {
	mutex   sync.Mutex
	members map[string]int
	queues  map[string]*memoryQueue
	maps    map[string]*memoryMap
	locks   map[string]*memoryLock
	topics  map[string]*memoryTopic
}

// NewMemoryCluster returns an empty in-process cluster
func NewMemoryCluster() *MemoryCluster {
	return &MemoryCluster{
		members: map[string]int{},
		queues:  map[string]*memoryQueue{},
		maps:    map[string]*memoryMap{},
		locks:   map[string]*memoryLock{},
		topics:  map[string]*memoryTopic{},
	}
}

// Join registers member with the cluster and returns its Client
func (c *MemoryCluster) Join(member string) Client {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.members[member]++

	return &memoryClient{cluster: c, member: member}
}

func (c *MemoryCluster) leave(member string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.members[member]--
	if c.members[member] <= 0 {
		delete(c.members, member)
	}
}

type memoryClient struct {
	cluster *MemoryCluster
	member  string
	once    sync.Once
}

func (c *memoryClient) Queue(name string) Queue {
	c.cluster.mutex.Lock()
	defer c.cluster.mutex.Unlock()

	if _, ok := c.cluster.queues[name]; !ok {
		c.cluster.queues[name] = &memoryQueue{signal: make(chan struct{}), listeners: map[int]func(){}}
	}
	return c.cluster.queues[name]
}

func (c *memoryClient) Map(name string) Map {
	c.cluster.mutex.Lock()
	defer c.cluster.mutex.Unlock()

	if _, ok := c.cluster.maps[name]; !ok {
		c.cluster.maps[name] = &memoryMap{entries: map[string][]byte{}, locks: map[string]*memoryLock{}}
	}
	return c.cluster.maps[name]
}

func (c *memoryClient) Lock(name string) Lock {
	c.cluster.mutex.Lock()
	defer c.cluster.mutex.Unlock()

	if _, ok := c.cluster.locks[name]; !ok {
		c.cluster.locks[name] = newMemoryLock()
	}
	return c.cluster.locks[name]
}

func (c *memoryClient) Topic(name string) Topic {
	c.cluster.mutex.Lock()
	defer c.cluster.mutex.Unlock()

	if _, ok := c.cluster.topics[name]; !ok {
		c.cluster.topics[name] = &memoryTopic{subscribers: map[int]func([]byte){}}
	}
	return c.cluster.topics[name]
}

func (c *memoryClient) Members(ctx context.Context) (members []string, err error) {
	c.cluster.mutex.Lock()
	defer c.cluster.mutex.Unlock()

	for m := range c.cluster.members {
		members = append(members, m)
	}
	sort.Strings(members)

	return members, nil
}

func (c *memoryClient) LocalMember() string {
	return c.member
}

func (c *memoryClient) Close() error {
	c.once.Do(func() { c.cluster.leave(c.member) })
	return nil
}

type memoryQueue struct {
	mutex          sync.Mutex
	items          [][]byte
	signal         chan struct{}
	listeners      map[int]func()
	nextListenerID int
}

func (q *memoryQueue) Offer(ctx context.Context, item []byte) (err error) {
	q.mutex.Lock()
	q.items = append(q.items, clone(item))
	// wake up blocked Take calls
	close(q.signal)
	q.signal = make(chan struct{})
	listeners := make([]func(), 0, len(q.listeners))
	for _, l := range q.listeners {
		listeners = append(listeners, l)
	}
	q.mutex.Unlock()

	for _, l := range listeners {
		go l()
	}

	return nil
}

func (q *memoryQueue) Poll(ctx context.Context) (item []byte, err error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if len(q.items) == 0 {
		return nil, ErrQueueEmpty
	}
	item = q.items[0]
	q.items = q.items[1:]

	return item, nil
}

func (q *memoryQueue) Take(ctx context.Context, timeout time.Duration) (item []byte, err error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		q.mutex.Lock()
		if len(q.items) > 0 {
			item = q.items[0]
			q.items = q.items[1:]
			q.mutex.Unlock()
			return item, nil
		}
		signal := q.signal
		q.mutex.Unlock()

		select {
		case <-signal:
		case <-timer.C:
			return nil, ErrQueueEmpty
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (q *memoryQueue) Size(ctx context.Context) (size int, err error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return len(q.items), nil
}

func (q *memoryQueue) AddListener(ctx context.Context, listener func()) (remove func(), err error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	id := q.nextListenerID
	q.nextListenerID++
	q.listeners[id] = listener

	return func() {
		q.mutex.Lock()
		defer q.mutex.Unlock()
		delete(q.listeners, id)
	}, nil
}

type memoryMap struct {
	mutex   sync.Mutex
	entries map[string][]byte
	locks   map[string]*memoryLock
}

func (m *memoryMap) Get(ctx context.Context, key string) (value []byte, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	value, ok := m.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return clone(value), nil
}

func (m *memoryMap) Put(ctx context.Context, key string, value []byte) (err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.entries[key] = clone(value)
	return nil
}

func (m *memoryMap) Remove(ctx context.Context, key string) (err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *memoryMap) Keys(ctx context.Context) (keys []string, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memoryMap) Values(ctx context.Context) (values [][]byte, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, v := range m.entries {
		values = append(values, clone(v))
	}
	return values, nil
}

func (m *memoryMap) LockKey(ctx context.Context, key string) (unlock func(), err error) {
	m.mutex.Lock()
	if _, ok := m.locks[key]; !ok {
		m.locks[key] = newMemoryLock()
	}
	l := m.locks[key]
	m.mutex.Unlock()

	return l.Lock(ctx)
}

type memoryLock struct {
	held chan struct{}
}

func newMemoryLock() *memoryLock {
	return &memoryLock{held: make(chan struct{}, 1)}
}

func (l *memoryLock) Lock(ctx context.Context) (unlock func(), err error) {
	select {
	case l.held <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-l.held }) }, nil
	case <-ctx.Done():
		return nil, errors.Wrap(ErrLockTimeout, ctx.Err().Error())
	}
}

type memoryTopic struct {
	mutex            sync.Mutex
	subscribers      map[int]func([]byte)
	nextSubscriberID int
}

func (t *memoryTopic) Publish(ctx context.Context, payload []byte) (err error) {
	t.mutex.Lock()
	subscribers := make([]func([]byte), 0, len(t.subscribers))
	for _, s := range t.subscribers {
		subscribers = append(subscribers, s)
	}
	t.mutex.Unlock()

	for _, s := range subscribers {
		go s(clone(payload))
	}

	return nil
}

func (t *memoryTopic) Subscribe(ctx context.Context, handler func(payload []byte)) (unsubscribe func(), err error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	id := t.nextSubscriberID
	t.nextSubscriberID++
	t.subscribers[id] = handler

	return func() {
		t.mutex.Lock()
		defer t.mutex.Unlock()
		delete(t.subscribers, id)
	}, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
