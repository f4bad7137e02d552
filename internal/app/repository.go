package app

import (
	"context"

	"quiz-portal-service/internal/domain"
)

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	// ListUsers returns every user, or only those with role when it is non-empty.
	ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error)
	AppendQuizTaken(ctx context.Context, userID, resultID string) error
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, category domain.Category) error
	GetCategory(ctx context.Context, id string) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// QuizRepository persists quiz documents. Questions and Category are never stored.
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
	GetQuiz(ctx context.Context, id string) (domain.Quiz, error)
	ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]domain.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz domain.Quiz) error
	DeleteQuiz(ctx context.Context, id string) error
}

// QuestionRepository persists questions.
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, question domain.Question) error
	GetQuestion(ctx context.Context, id string) (domain.Question, error)
	ListQuestionsByQuiz(ctx context.Context, quizIDs ...string) ([]domain.Question, error)
	UpdateQuestion(ctx context.Context, question domain.Question) error
	DeleteQuestion(ctx context.Context, id string) error
	DeleteQuestionsByQuiz(ctx context.Context, quizID string) error
}

// ResultRepository persists results, at most one per (user, quiz).
type ResultRepository interface {
	// UpsertResult stores result for its (user, quiz) pair. An existing result keeps its id
	// and has every graded field replaced. created reports whether a new result was inserted.
	UpsertResult(ctx context.Context, result domain.Result) (stored domain.Result, created bool, err error)
	GetResult(ctx context.Context, userID, quizID string) (domain.Result, error)
	ListResultsByUser(ctx context.Context, userID string) ([]domain.Result, error)
	ListResults(ctx context.Context) ([]domain.Result, error)
}

// Store is the entity store the services run against (in-memory, Postgres, etc).
type Store interface {
	UserRepository
	CategoryRepository
	QuizRepository
	QuestionRepository
	ResultRepository
}

// QuizReader loads a quiz with its questions populated (from cache/backing store).
type QuizReader interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizCache is a QuizReader whose entries can be dropped after catalog writes.
type QuizCache interface {
	QuizReader
	Invalidate(ctx context.Context, quizID string)
}

// StoreQuizLoader assembles quizzes straight from the store.
type StoreQuizLoader struct {
	store Store
}

func NewStoreQuizLoader(store Store) *StoreQuizLoader {
	return &StoreQuizLoader{store: store}
}

// LoadQuiz returns the quiz with its category and questions in quiz order.
func (l *StoreQuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, err := l.store.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	populated, err := populateQuizzes(ctx, l.store, []domain.Quiz{quiz})
	if err != nil {
		return domain.Quiz{}, err
	}
	return populated[0], nil
}

// populateQuizzes attaches categories and questions. Dangling references are skipped.
func populateQuizzes(ctx context.Context, store Store, quizzes []domain.Quiz) ([]domain.Quiz, error) {
	if len(quizzes) == 0 {
		return quizzes, nil
	}
	ids := make([]string, 0, len(quizzes))
	for _, q := range quizzes {
		ids = append(ids, q.ID)
	}
	questions, err := store.ListQuestionsByQuiz(ctx, ids...)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	categories, err := store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	catByID := make(map[string]domain.Category, len(categories))
	for _, c := range categories {
		catByID[c.ID] = c
	}

	out := make([]domain.Quiz, len(quizzes))
	for i, quiz := range quizzes {
		quiz.Questions = make([]domain.Question, 0, len(quiz.QuestionIDs))
		for _, qid := range quiz.QuestionIDs {
			if q, ok := byID[qid]; ok {
				quiz.Questions = append(quiz.Questions, q)
			}
		}
		if c, ok := catByID[quiz.CategoryID]; ok {
			quiz.Category = &c
		}
		out[i] = quiz
	}
	return out, nil
}
