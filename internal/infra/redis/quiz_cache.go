package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quiz-portal-service/internal/domain"
)

var errStaleLoad = errors.New("quiz invalidated during load")

// QuizLoader fetches a populated quiz from the backing store (e.g., Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizCache caches populated quizzes in Redis and falls back to a loader on cache miss.
// Quizzes are stored as JSON: SET quiz:{quizID} {json} EX ttl
// quiz:{quizID}:version is bumped by Invalidate; a load only writes its copy when the
// version it read before loading is still current.
type QuizCache struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuizCache(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizCache {
	return &QuizCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuizCache) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := c.lookup(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another instance filled it.
		if quiz, ok := c.lookup(ctx, quizID); ok {
			return quiz, nil
		}

		version, versionErr := c.version(ctx, quizID)
		if versionErr != nil {
			log.Printf("read quiz %s version: %v", quizID, versionErr)
		}
		quiz, err := c.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		if versionErr != nil {
			return quiz, nil
		}

		data, err := json.Marshal(quiz)
		if err != nil {
			return quiz, nil
		}
		if err := c.store(ctx, quizID, version, data); err != nil {
			log.Printf("cache quiz %s: %v", quizID, err)
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// Invalidate removes the cached quiz so the next read reloads it.
func (c *QuizCache) Invalidate(ctx context.Context, quizID string) {
	c.sf.Forget(quizID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.versionKey(quizID))
		pipe.Del(ctx, c.key(quizID))
		return nil
	})
	if err != nil {
		log.Printf("invalidate quiz %s: %v", quizID, err)
	}
}

func (c *QuizCache) version(ctx context.Context, quizID string) (int64, error) {
	v, err := c.client.Get(ctx, c.versionKey(quizID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// store sets the quiz key under WATCH on the version key. A version bump between the
// read and EXEC drops the write.
func (c *QuizCache) store(ctx context.Context, quizID string, version int64, data []byte) error {
	vkey := c.versionKey(quizID)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vkey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleLoad
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(quizID), data, c.ttlWithJitter())
			return nil
		})
		return err
	}, vkey)
	if errors.Is(err, errStaleLoad) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// lookup treats any Redis failure as a miss.
func (c *QuizCache) lookup(ctx context.Context, quizID string) (domain.Quiz, bool) {
	data, err := c.client.Get(ctx, c.key(quizID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("read cached quiz %s: %v", quizID, err)
		}
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (c *QuizCache) key(quizID string) string {
	return "quiz:" + quizID
}

func (c *QuizCache) versionKey(quizID string) string {
	return "quiz:" + quizID + ":version"
}

// ttlWithJitter returns 0 (no expiry) when ttl is unset.
func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
