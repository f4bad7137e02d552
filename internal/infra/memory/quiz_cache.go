package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-portal-service/internal/domain"
)

// QuizLoader fetches a populated quiz from the backing store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizCache caches populated quizzes with TTL to avoid repeated store round trips.
type QuizCache struct {
	loader QuizLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedQuiz
	// gens counts invalidations per quiz; a load only stores its copy if the count is unchanged.
	gens  map[string]uint64
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizCache(loader QuizLoader, ttl time.Duration) *QuizCache {
	return newQuizCacheWithClock(loader, ttl, time.Now)
}

func newQuizCacheWithClock(loader QuizLoader, ttl time.Duration, clock func() time.Time) *QuizCache {
	return &QuizCache{
		loader: loader,
		ttl:    ttl,
		clock:  clock,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuiz),
		gens:   make(map[string]uint64),
	}
}

func (c *QuizCache) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := c.lookup(quizID); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		if quiz, ok := c.lookup(quizID); ok {
			return quiz, nil
		}

		gen := c.generation(quizID)
		quiz, err := c.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		if c.ttl <= 0 {
			return quiz, nil
		}

		c.mu.Lock()
		if c.gens[quizID] == gen {
			c.cache[quizID] = cachedQuiz{
				quiz:      quiz,
				expiresAt: c.clock().Add(c.ttlWithJitterLocked()),
			}
		}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return cloneQuiz(result.(domain.Quiz)), nil
}

// Invalidate drops the cached entry so the next read reloads it. Loads already in
// flight still return to their callers but are not cached.
func (c *QuizCache) Invalidate(_ context.Context, quizID string) {
	c.mu.Lock()
	delete(c.cache, quizID)
	c.gens[quizID]++
	c.mu.Unlock()
	c.sf.Forget(quizID)
}

func (c *QuizCache) generation(quizID string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[quizID]
}

func (c *QuizCache) lookup(quizID string) (domain.Quiz, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[quizID]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return domain.Quiz{}, false
	}
	return cloneQuiz(entry.quiz), true
}

func (c *QuizCache) ttlWithJitterLocked() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// cloneQuiz copies slices so callers never share the cache's backing arrays.
func cloneQuiz(q domain.Quiz) domain.Quiz {
	q.QuestionIDs = append([]string{}, q.QuestionIDs...)
	questions := make([]domain.Question, len(q.Questions))
	for i, question := range q.Questions {
		if question.Options != nil {
			question.Options = append([]domain.Option{}, question.Options...)
		}
		questions[i] = question
	}
	q.Questions = questions
	if q.Category != nil {
		cat := *q.Category
		q.Category = &cat
	}
	return q
}
