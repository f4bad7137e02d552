package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-portal-service/internal/domain"
)

// Store is an in-memory implementation of app.Store. Values are copied on the way in and
// out so callers never share slices with stored documents.
type Store struct {
	mu         sync.RWMutex
	users      map[string]domain.User
	categories map[string]domain.Category
	quizzes    map[string]domain.Quiz
	questions  map[string]domain.Question
	results    map[string]domain.Result
	// resultKeys indexes results by user and quiz.
	resultKeys map[resultKey]string
	// seq preserves insertion order for listings.
	seq   int
	order map[string]int
}

type resultKey struct {
	userID string
	quizID string
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]domain.User),
		categories: make(map[string]domain.Category),
		quizzes:    make(map[string]domain.Quiz),
		questions:  make(map[string]domain.Question),
		results:    make(map[string]domain.Result),
		resultKeys: make(map[resultKey]string),
		order:      make(map[string]int),
	}
}

func (s *Store) touch(id string) {
	if _, ok := s.order[id]; !ok {
		s.seq++
		s.order[id] = s.seq
	}
}

func (s *Store) sortByInsertion(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return s.order[ids[i]] < s.order[ids[j]] })
}

func (s *Store) CreateUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	s.users[user.ID] = copyUser(user)
	s.touch(user.ID)
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *Store) UpdateUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *Store) ListUsers(_ context.Context, role domain.Role) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.users))
	for id, u := range s.users {
		if role == "" || u.Role == role {
			ids = append(ids, id)
		}
	}
	s.sortByInsertion(ids)
	out := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyUser(s.users[id]))
	}
	return out, nil
}

func (s *Store) AppendQuizTaken(_ context.Context, userID, resultID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u = copyUser(u)
	u.QuizzesTaken = append(u.QuizzesTaken, resultID)
	s.users[userID] = u
	return nil
}

func (s *Store) CreateCategory(_ context.Context, category domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[category.ID] = category
	s.touch(category.ID)
	return nil
}

func (s *Store) GetCategory(_ context.Context, id string) (domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return c, nil
}

func (s *Store) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.categories))
	for id := range s.categories {
		ids = append(ids, id)
	}
	s.sortByInsertion(ids)
	out := make([]domain.Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.categories[id])
	}
	return out, nil
}

func (s *Store) UpdateCategory(_ context.Context, category domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	s.categories[category.ID] = category
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) CreateQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = copyQuiz(quiz)
	s.touch(quiz.ID)
	return nil
}

func (s *Store) GetQuiz(_ context.Context, id string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quizzes[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return copyQuiz(q), nil
}

func (s *Store) ListQuizzes(_ context.Context, filter domain.QuizFilter) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.quizzes))
	for id, q := range s.quizzes {
		if filter.CategoryID != "" && q.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Difficulty != "" && q.Difficulty != filter.Difficulty {
			continue
		}
		ids = append(ids, id)
	}
	s.sortByInsertion(ids)
	out := make([]domain.Quiz, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyQuiz(s.quizzes[id]))
	}
	return out, nil
}

func (s *Store) UpdateQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quiz.ID]; !ok {
		return domain.ErrQuizNotFound
	}
	s.quizzes[quiz.ID] = copyQuiz(quiz)
	return nil
}

func (s *Store) DeleteQuiz(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[id]; !ok {
		return domain.ErrQuizNotFound
	}
	delete(s.quizzes, id)
	return nil
}

func (s *Store) CreateQuestion(_ context.Context, question domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[question.ID] = copyQuestion(question)
	s.touch(question.ID)
	return nil
}

func (s *Store) GetQuestion(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return copyQuestion(q), nil
}

func (s *Store) ListQuestionsByQuiz(_ context.Context, quizIDs ...string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[string]struct{}, len(quizIDs))
	for _, id := range quizIDs {
		wanted[id] = struct{}{}
	}
	ids := make([]string, 0)
	for id, q := range s.questions {
		if _, ok := wanted[q.QuizID]; ok {
			ids = append(ids, id)
		}
	}
	s.sortByInsertion(ids)
	out := make([]domain.Question, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyQuestion(s.questions[id]))
	}
	return out, nil
}

func (s *Store) UpdateQuestion(_ context.Context, question domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[question.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.questions[question.ID] = copyQuestion(question)
	return nil
}

func (s *Store) DeleteQuestion(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	return nil
}

func (s *Store) DeleteQuestionsByQuiz(_ context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, q := range s.questions {
		if q.QuizID == quizID {
			delete(s.questions, id)
		}
	}
	return nil
}

// UpsertResult finds the result for the (user, quiz) pair and replaces it in place, or
// inserts result when none exists. Both steps run under one lock.
func (s *Store) UpsertResult(_ context.Context, result domain.Result) (domain.Result, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := resultKey{userID: result.UserID, quizID: result.QuizID}
	result.QuizDetail = nil
	if id, ok := s.resultKeys[key]; ok {
		result.ID = id
		s.results[id] = copyResult(result)
		return copyResult(result), false, nil
	}
	s.results[result.ID] = copyResult(result)
	s.resultKeys[key] = result.ID
	s.touch(result.ID)
	return copyResult(result), true, nil
}

func (s *Store) GetResult(_ context.Context, userID, quizID string) (domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.resultKeys[resultKey{userID: userID, quizID: quizID}]
	if !ok {
		return domain.Result{}, domain.ErrResultNotFound
	}
	return copyResult(s.results[id]), nil
}

func (s *Store) ListResultsByUser(_ context.Context, userID string) ([]domain.Result, error) {
	return s.listResults(func(r domain.Result) bool { return r.UserID == userID }), nil
}

func (s *Store) ListResults(_ context.Context) ([]domain.Result, error) {
	return s.listResults(func(domain.Result) bool { return true }), nil
}

func (s *Store) listResults(keep func(domain.Result) bool) []domain.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.results))
	for id, r := range s.results {
		if keep(r) {
			ids = append(ids, id)
		}
	}
	s.sortByInsertion(ids)
	out := make([]domain.Result, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyResult(s.results[id]))
	}
	return out
}

func copyUser(u domain.User) domain.User {
	u.QuizzesTaken = append([]string{}, u.QuizzesTaken...)
	return u
}

// copyQuiz drops read-only population so it is never stored.
func copyQuiz(q domain.Quiz) domain.Quiz {
	q.QuestionIDs = append([]string{}, q.QuestionIDs...)
	q.Questions = nil
	q.Category = nil
	return q
}

func copyQuestion(q domain.Question) domain.Question {
	if q.Options != nil {
		q.Options = append([]domain.Option{}, q.Options...)
	}
	return q
}

func copyResult(r domain.Result) domain.Result {
	r.Answers = append([]domain.Answer{}, r.Answers...)
	r.QuizDetail = nil
	return r
}
