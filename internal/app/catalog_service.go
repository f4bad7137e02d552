package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"quiz-portal-service/internal/domain"
)

// QuizPatch carries a partial quiz update; nil fields are left unchanged.
type QuizPatch struct {
	Title            *string
	Description      *string
	CategoryID       *string
	Difficulty       *domain.Difficulty
	TimeLimit        *int
	ShuffleQuestions *bool
	ShuffleOptions   *bool
}

// QuestionPatch carries a partial question update; nil fields are left unchanged.
type QuestionPatch struct {
	Type           *domain.QuestionType
	Text           *string
	Options        *[]domain.Option
	CorrectAnswer  *string
	Media          *string
	TimeLimit      *int
	Difficulty     *domain.Difficulty
	ShuffleOptions *bool
}

// CategoryPatch carries a partial category update.
type CategoryPatch struct {
	Name        *string
	Description *string
}

// CatalogService manages categories, quizzes and questions.
type CatalogService struct {
	store    Store
	cache    QuizCache
	shuffler *Shuffler
	now      func() time.Time
}

func NewCatalogService(store Store, cache QuizCache) *CatalogService {
	return &CatalogService{store: store, cache: cache, shuffler: newDefaultShuffler(), now: time.Now}
}

// UseShuffler replaces the random source used for user-facing reads.
func (s *CatalogService) UseShuffler(sh *Shuffler) {
	s.shuffler = sh
}

func (s *CatalogService) invalidate(ctx context.Context, quizID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, quizID)
	}
}

// CreateCategory validates and stores a new category.
func (s *CatalogService) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	if err := domain.ValidateCategory(category); err != nil {
		return domain.Category{}, err
	}
	category.ID = uuid.NewString()
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.store.ListCategories(ctx)
}

// UpdateCategory applies patch to the category.
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (domain.Category, error) {
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}
	if patch.Name != nil {
		category.Name = *patch.Name
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}
	if err := domain.ValidateCategory(category); err != nil {
		return domain.Category{}, err
	}
	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

// DeleteCategory removes the category. Its quizzes are left in place.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) (domain.Category, error) {
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

// QuestionsForCategory returns the questions of every quiz in the category.
func (s *CatalogService) QuestionsForCategory(ctx context.Context, categoryID string) ([]domain.Question, error) {
	quizzes, err := s.store.ListQuizzes(ctx, domain.QuizFilter{CategoryID: categoryID})
	if err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return []domain.Question{}, nil
	}
	ids := make([]string, 0, len(quizzes))
	for _, q := range quizzes {
		ids = append(ids, q.ID)
	}
	return s.store.ListQuestionsByQuiz(ctx, ids...)
}

// CreateQuiz stores a quiz and any inline questions. The category must exist.
func (s *CatalogService) CreateQuiz(ctx context.Context, quiz domain.Quiz, questions []domain.Question) (domain.Quiz, error) {
	if quiz.Difficulty == "" {
		quiz.Difficulty = domain.DifficultyEasy
	}
	if err := domain.ValidateQuiz(quiz); err != nil {
		return domain.Quiz{}, err
	}
	for i := range questions {
		normalizeQuestion(&questions[i])
		if err := domain.ValidateQuestion(questions[i]); err != nil {
			return domain.Quiz{}, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	if _, err := s.store.GetCategory(ctx, quiz.CategoryID); err != nil {
		return domain.Quiz{}, err
	}

	quiz.ID = uuid.NewString()
	quiz.CreatedAt = s.now().UTC()
	quiz.QuestionIDs = make([]string, 0, len(questions))
	quiz.Questions = nil
	quiz.Category = nil
	for i := range questions {
		questions[i].ID = uuid.NewString()
		questions[i].QuizID = quiz.ID
		quiz.QuestionIDs = append(quiz.QuestionIDs, questions[i].ID)
	}

	if err := s.store.CreateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	for _, q := range questions {
		if err := s.store.CreateQuestion(ctx, q); err != nil {
			return domain.Quiz{}, fmt.Errorf("create question: %w", err)
		}
	}
	return s.loadQuiz(ctx, quiz.ID)
}

// ListQuizzes returns filtered quizzes annotated with the user's status.
// userID may be empty for anonymous listings.
func (s *CatalogService) ListQuizzes(ctx context.Context, userID string, filter domain.QuizFilter) ([]domain.QuizView, error) {
	quizzes, err := s.store.ListQuizzes(ctx, filter)
	if err != nil {
		return nil, err
	}
	quizzes, err = populateQuizzes(ctx, s.store, quizzes)
	if err != nil {
		return nil, err
	}
	var results []domain.Result
	if userID != "" {
		results, err = s.store.ListResultsByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
	}
	return AnnotateQuizzes(quizzes, results), nil
}

// GetQuiz returns the quiz for a user-facing read with shuffle flags applied to a copy.
func (s *CatalogService) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	quiz, err := s.loadQuiz(ctx, id)
	if err != nil {
		return domain.Quiz{}, err
	}
	return s.shuffler.Apply(quiz), nil
}

func (s *CatalogService) loadQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	if s.cache != nil {
		return s.cache.GetQuiz(ctx, id)
	}
	return NewStoreQuizLoader(s.store).LoadQuiz(ctx, id)
}

// UpdateQuiz applies patch to the quiz header.
func (s *CatalogService) UpdateQuiz(ctx context.Context, id string, patch QuizPatch) (domain.Quiz, error) {
	quiz, err := s.store.GetQuiz(ctx, id)
	if err != nil {
		return domain.Quiz{}, err
	}
	if patch.Title != nil {
		quiz.Title = *patch.Title
	}
	if patch.Description != nil {
		quiz.Description = *patch.Description
	}
	if patch.CategoryID != nil && *patch.CategoryID != quiz.CategoryID {
		if _, err := s.store.GetCategory(ctx, *patch.CategoryID); err != nil {
			return domain.Quiz{}, err
		}
		quiz.CategoryID = *patch.CategoryID
	}
	if patch.Difficulty != nil {
		quiz.Difficulty = *patch.Difficulty
	}
	if patch.TimeLimit != nil {
		quiz.TimeLimit = *patch.TimeLimit
	}
	if patch.ShuffleQuestions != nil {
		quiz.ShuffleQuestions = *patch.ShuffleQuestions
	}
	if patch.ShuffleOptions != nil {
		quiz.ShuffleOptions = *patch.ShuffleOptions
	}
	if err := domain.ValidateQuiz(quiz); err != nil {
		return domain.Quiz{}, err
	}
	if err := s.store.UpdateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	s.invalidate(ctx, id)
	return s.loadQuiz(ctx, id)
}

// DeleteQuiz removes the quiz and its questions, then the category if it became empty.
func (s *CatalogService) DeleteQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	quiz, err := s.store.GetQuiz(ctx, id)
	if err != nil {
		return domain.Quiz{}, err
	}
	if err := s.store.DeleteQuiz(ctx, id); err != nil {
		return domain.Quiz{}, err
	}
	s.invalidate(ctx, id)
	if err := s.store.DeleteQuestionsByQuiz(ctx, id); err != nil {
		return domain.Quiz{}, fmt.Errorf("delete questions: %w", err)
	}
	remaining, err := s.store.ListQuizzes(ctx, domain.QuizFilter{CategoryID: quiz.CategoryID})
	if err != nil {
		return domain.Quiz{}, err
	}
	if len(remaining) == 0 {
		if err := s.store.DeleteCategory(ctx, quiz.CategoryID); err != nil && domain.KindOf(err) != domain.KindNotFound {
			return domain.Quiz{}, fmt.Errorf("delete empty category: %w", err)
		}
	}
	return quiz, nil
}

// AddQuestion validates question and appends it to the quiz.
func (s *CatalogService) AddQuestion(ctx context.Context, quizID string, question domain.Question) (domain.Question, error) {
	normalizeQuestion(&question)
	if err := domain.ValidateQuestion(question); err != nil {
		return domain.Question{}, err
	}
	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Question{}, err
	}
	question.ID = uuid.NewString()
	question.QuizID = quizID
	if err := s.store.CreateQuestion(ctx, question); err != nil {
		return domain.Question{}, err
	}
	quiz.QuestionIDs = append(quiz.QuestionIDs, question.ID)
	if err := s.store.UpdateQuiz(ctx, quiz); err != nil {
		return domain.Question{}, fmt.Errorf("link question to quiz: %w", err)
	}
	s.invalidate(ctx, quizID)
	return question, nil
}

// UpdateQuestion applies patch and re-validates the merged question.
func (s *CatalogService) UpdateQuestion(ctx context.Context, id string, patch QuestionPatch) (domain.Question, error) {
	question, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	if patch.Type != nil {
		question.Type = *patch.Type
	}
	if patch.Text != nil {
		question.Text = *patch.Text
	}
	if patch.Options != nil {
		question.Options = *patch.Options
	}
	if patch.CorrectAnswer != nil {
		question.CorrectAnswer = *patch.CorrectAnswer
	}
	if patch.Media != nil {
		question.Media = *patch.Media
	}
	if patch.TimeLimit != nil {
		question.TimeLimit = *patch.TimeLimit
	}
	if patch.Difficulty != nil {
		question.Difficulty = *patch.Difficulty
	}
	if patch.ShuffleOptions != nil {
		question.ShuffleOptions = *patch.ShuffleOptions
	}
	normalizeQuestion(&question)
	if err := domain.ValidateQuestion(question); err != nil {
		return domain.Question{}, err
	}
	if err := s.store.UpdateQuestion(ctx, question); err != nil {
		return domain.Question{}, err
	}
	s.invalidate(ctx, question.QuizID)
	return question, nil
}

// DeleteQuestion removes the question and unlinks it from its quiz.
func (s *CatalogService) DeleteQuestion(ctx context.Context, id string) (domain.Question, error) {
	question, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		return domain.Question{}, err
	}
	quiz, err := s.store.GetQuiz(ctx, question.QuizID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return question, nil
		}
		return domain.Question{}, err
	}
	kept := make([]string, 0, len(quiz.QuestionIDs))
	for _, qid := range quiz.QuestionIDs {
		if qid != id {
			kept = append(kept, qid)
		}
	}
	quiz.QuestionIDs = kept
	if err := s.store.UpdateQuiz(ctx, quiz); err != nil {
		return domain.Question{}, fmt.Errorf("unlink question: %w", err)
	}
	s.invalidate(ctx, quiz.ID)
	return question, nil
}

// normalizeQuestion fills defaults and drops fields that do not apply to the type.
func normalizeQuestion(q *domain.Question) {
	if q.Difficulty == "" {
		q.Difficulty = domain.DifficultyEasy
	}
	switch q.Type {
	case domain.QuestionTrueFalse:
		q.Options = nil
	case domain.QuestionMCQ:
		q.CorrectAnswer = ""
	}
}
