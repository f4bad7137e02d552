package app

import (
	"math/rand"
	"sync"
	"time"

	"quiz-portal-service/internal/domain"
)

// Shuffler permutes copies of quiz content for user-facing reads.
type Shuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewShuffler(seed int64) *Shuffler {
	return &Shuffler{rnd: rand.New(rand.NewSource(seed))}
}

func newDefaultShuffler() *Shuffler {
	return NewShuffler(time.Now().UnixNano())
}

// intn serializes access; *rand.Rand is not safe for concurrent use.
func (s *Shuffler) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

// Options returns a Fisher-Yates permutation of a copy of options.
func (s *Shuffler) Options(options []domain.Option) []domain.Option {
	out := make([]domain.Option, len(options))
	copy(out, options)
	for i := len(out) - 1; i > 0; i-- {
		j := s.intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Questions returns a Fisher-Yates permutation of a copy of questions.
func (s *Shuffler) Questions(questions []domain.Question) []domain.Question {
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	for i := len(out) - 1; i > 0; i-- {
		j := s.intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Apply returns a copy of quiz with its shuffle flags honored. The input is left untouched.
func (s *Shuffler) Apply(quiz domain.Quiz) domain.Quiz {
	questions := make([]domain.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		if (q.ShuffleOptions || quiz.ShuffleOptions) && len(q.Options) > 1 {
			q.Options = s.Options(q.Options)
		}
		questions[i] = q
	}
	if quiz.ShuffleQuestions {
		questions = s.Questions(questions)
	}
	quiz.Questions = questions
	return quiz
}
