package slotlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

var (
	// ErrLockNotAcquired слот уже обрабатывается параллельным запросом
	ErrLockNotAcquired = errors.New("slot lock not acquired")
)

// Locker сериализует создание бронирований одного слота провайдера
type Locker interface {
	WithSlotLock(ctx context.Context, providerID int64, date time.Time, start timeslot.TimeString, fn func(ctx context.Context) error) error
}

type redisSlotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSlotLocker создает локер на ключах Redis, по одному на слот провайдера
func NewRedisSlotLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisSlotLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisSlotLocker) WithSlotLock(ctx context.Context, providerID int64, date time.Time, start timeslot.TimeString, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:slot:%d:%s:%s", providerID, date.Format("2006-01-02"), start.String())
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

// Ключ удаляется только владельцем токена, чужой лок после истечения TTL не трогаем
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisSlotLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release slot lock: %w", err)
	}
	return nil
}

// NoopLocker пропускает блокировку, используется когда Redis выключен в конфиге
type NoopLocker struct{}

func (NoopLocker) WithSlotLock(ctx context.Context, _ int64, _ time.Time, _ timeslot.TimeString, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
