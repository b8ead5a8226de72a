package clusterapi

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var releaseLockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// NewRedisClient connects to redis; cluster membership is derived from the client names of all connections
func NewRedisClient(ctx context.Context, config *api.CoordinationConfig, member string) (Client, error) {

	clientName := memberClientName(config.Namespace, member)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Address,
		Password: config.Redis.Password,
		DB:       config.Redis.Database,
		PoolSize: config.Redis.PoolSize,
		OnConnect: func(ctx context.Context, cn *redis.Conn) error {
			return cn.ClientSetName(ctx, clientName).Err()
		},
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrapf(err, "Failed connecting to redis at %v", config.Redis.Address)
	}

	return &redisClusterClient{
		client:      redisClient,
		namespace:   config.Namespace,
		member:      member,
		lockTTL:     time.Duration(config.LockTTLSeconds) * time.Second,
		lockTimeout: time.Duration(config.LockTimeoutSeconds) * time.Second,
	}, nil
}

func memberClientName(namespace, member string) string {
	// client names can't contain spaces
	return fmt.Sprintf("%v.member.%v", namespace, strings.ReplaceAll(member, " ", "_"))
}

type redisClusterClient struct {
	client      *redis.Client
	namespace   string
	member      string
	lockTTL     time.Duration
	lockTimeout time.Duration
}

func (c *redisClusterClient) key(kind, name string) string {
	return fmt.Sprintf("%v:%v:%v", c.namespace, kind, name)
}

func (c *redisClusterClient) Queue(name string) Queue {
	return &redisQueue{client: c.client, key: c.key("queue", name)}
}

func (c *redisClusterClient) Map(name string) Map {
	return &redisMap{
		client: c.client,
		key:    c.key("map", name),
		lockFor: func(key string) Lock {
			return c.Lock("map:" + name + ":" + key)
		},
	}
}

func (c *redisClusterClient) Lock(name string) Lock {
	return &redisLock{client: c.client, key: c.key("lock", name), ttl: c.lockTTL, timeout: c.lockTimeout}
}

func (c *redisClusterClient) Topic(name string) Topic {
	return &redisTopic{client: c.client, channel: c.key("topic", name)}
}

func (c *redisClusterClient) Members(ctx context.Context) (members []string, err error) {
	clientList, err := c.client.ClientList(ctx).Result()
	if err != nil {
		return nil, err
	}

	return parseMembersFromClientList(clientList, c.namespace), nil
}

func parseMembersFromClientList(clientList, namespace string) (members []string) {
	prefix := namespace + ".member."
	unique := map[string]bool{}
	for _, line := range strings.Split(clientList, "\n") {
		for _, field := range strings.Fields(line) {
			if !strings.HasPrefix(field, "name=") {
				continue
			}
			name := strings.TrimPrefix(field, "name=")
			if strings.HasPrefix(name, prefix) {
				unique[strings.TrimPrefix(name, prefix)] = true
			}
		}
	}
	for m := range unique {
		members = append(members, m)
	}
	sort.Strings(members)
	return
}

func (c *redisClusterClient) LocalMember() string {
	return c.member
}

func (c *redisClusterClient) Close() error {
	return c.client.Close()
}

type redisQueue struct {
	client *redis.Client
	key    string
}

func (q *redisQueue) Offer(ctx context.Context, item []byte) (err error) {
	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, q.key, item)
		pipe.Publish(ctx, q.key+":added", "")
		return nil
	})
	return
}

func (q *redisQueue) Poll(ctx context.Context) (item []byte, err error) {
	item, err = q.client.LPop(ctx, q.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrQueueEmpty
	}
	return
}

func (q *redisQueue) Take(ctx context.Context, timeout time.Duration) (item []byte, err error) {
	result, err := q.client.BLPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrQueueEmpty
	}
	if err != nil {
		return nil, err
	}
	// result holds the key followed by the value
	return []byte(result[1]), nil
}

func (q *redisQueue) Size(ctx context.Context) (size int, err error) {
	length, err := q.client.LLen(ctx, q.key).Result()
	return int(length), err
}

func (q *redisQueue) AddListener(ctx context.Context, listener func()) (remove func(), err error) {
	return subscribe(ctx, q.client, q.key+":added", func([]byte) { listener() })
}

type redisMap struct {
	client  *redis.Client
	key     string
	lockFor func(key string) Lock
}

func (m *redisMap) Get(ctx context.Context, key string) (value []byte, err error) {
	value, err = m.client.HGet(ctx, m.key, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	return
}

func (m *redisMap) Put(ctx context.Context, key string, value []byte) (err error) {
	return m.client.HSet(ctx, m.key, key, value).Err()
}

func (m *redisMap) Remove(ctx context.Context, key string) (err error) {
	return m.client.HDel(ctx, m.key, key).Err()
}

func (m *redisMap) Keys(ctx context.Context) (keys []string, err error) {
	keys, err = m.client.HKeys(ctx, m.key).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return
}

func (m *redisMap) Values(ctx context.Context) (values [][]byte, err error) {
	vals, err := m.client.HVals(ctx, m.key).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range vals {
		values = append(values, []byte(v))
	}
	return
}

func (m *redisMap) LockKey(ctx context.Context, key string) (unlock func(), err error) {
	return m.lockFor(key).Lock(ctx)
}

type redisLock struct {
	client  *redis.Client
	key     string
	ttl     time.Duration
	timeout time.Duration
}

func (l *redisLock) Lock(ctx context.Context) (unlock func(), err error) {
	token := uuid.New().String()

	lockCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	backoff := 10 * time.Millisecond
	for {
		acquired, err := l.client.SetNX(lockCtx, l.key, token, l.ttl).Result()
		if err != nil && lockCtx.Err() == nil {
			return nil, errors.Wrapf(err, "Failed acquiring lock %v", l.key)
		}
		if acquired {
			break
		}

		select {
		case <-lockCtx.Done():
			return nil, errors.Wrapf(ErrLockTimeout, "lock %v", l.key)
		case <-time.After(backoff):
		}
		if backoff < 200*time.Millisecond {
			backoff *= 2
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the caller's context may be done already, releasing must still happen
			releaseCtx, releaseCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer releaseCancel()
			if err := releaseLockScript.Run(releaseCtx, l.client, []string{l.key}, token).Err(); err != nil {
				log.Warn().Err(err).Msgf("Failed releasing lock %v", l.key)
			}
		})
	}, nil
}

type redisTopic struct {
	client  *redis.Client
	channel string
}

func (t *redisTopic) Publish(ctx context.Context, payload []byte) (err error) {
	return t.client.Publish(ctx, t.channel, payload).Err()
}

func (t *redisTopic) Subscribe(ctx context.Context, handler func(payload []byte)) (unsubscribe func(), err error) {
	return subscribe(ctx, t.client, t.channel, handler)
}

func subscribe(ctx context.Context, client *redis.Client, channel string, handler func(payload []byte)) (unsubscribe func(), err error) {
	pubsub := client.Subscribe(ctx, channel)

	// wait for the subscription to be confirmed, so no message published after returning is missed
	if _, err = pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, errors.Wrapf(err, "Failed subscribing to %v", channel)
	}

	messages := pubsub.Channel()
	go func() {
		for msg := range messages {
			handler([]byte(msg.Payload))
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := pubsub.Close(); err != nil {
				log.Warn().Err(err).Msgf("Failed closing subscription to %v", channel)
			}
		})
	}, nil
}
