package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyFmt = "session:%s"

// RedisStore keeps sessions in Redis with a TTL. Serialization of
// read-modify-write cycles per user key happens in process, so a deployment
// must route all messages for one user to one instance.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb:   rdb,
		ttl:   ttl,
		locks: make(map[string]*sync.Mutex),
	}
}

// keyLock returns the mutex for userID. Lock entries are kept for the
// lifetime of the store: dropping one would hand a second goroutine a fresh
// mutex while the first still holds the old one, letting two read-modify-write
// cycles run against the same key.
func (s *RedisStore) keyLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// decodeSession turns a stored payload into a session, degrading to a fresh
// one when the payload does not parse.
func decodeSession(raw []byte, userID string) *Session {
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		log.Printf("[SessionStore] Corrupt session for user %s, resetting: %v", userID, err)
		return New(userID)
	}
	if sess.Slots == nil {
		sess.Slots = make(map[string]string)
	}
	return &sess
}

func (s *RedisStore) load(ctx context.Context, userID string) *Session {
	key := fmt.Sprintf(sessionKeyFmt, userID)
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return New(userID)
	}
	if err != nil {
		log.Printf("[SessionStore] Redis get failed for user %s: %v", userID, err)
		return New(userID)
	}
	return decodeSession(raw, userID)
}

func (s *RedisStore) save(ctx context.Context, sess *Session) {
	key := fmt.Sprintf(sessionKeyFmt, sess.UserID)
	raw, err := json.Marshal(sess)
	if err != nil {
		log.Printf("[SessionStore] Marshal failed for user %s: %v", sess.UserID, err)
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		log.Printf("[SessionStore] Redis set failed for user %s: %v", sess.UserID, err)
	}
}

func (s *RedisStore) GetOrCreate(userID string) *Session {
	l := s.keyLock(userID)
	l.Lock()
	defer l.Unlock()
	return s.load(context.Background(), userID)
}

func (s *RedisStore) Update(userID string, fn func(*Session)) {
	l := s.keyLock(userID)
	l.Lock()
	defer l.Unlock()
	ctx := context.Background()
	sess := s.load(ctx, userID)
	fn(sess)
	sess.UpdatedAt = time.Now()
	s.save(ctx, sess)
}

func (s *RedisStore) Remove(userID string) {
	l := s.keyLock(userID)
	l.Lock()
	defer l.Unlock()
	key := fmt.Sprintf(sessionKeyFmt, userID)
	if err := s.rdb.Del(context.Background(), key).Err(); err != nil {
		log.Printf("[SessionStore] Redis del failed for user %s: %v", userID, err)
	}
}
