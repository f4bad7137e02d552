package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"quiz-portal-service/internal/domain"
)

// Notifier announces that the leaderboard changed (locally or across instances).
type Notifier interface {
	LeaderboardChanged(ctx context.Context) error
}

// ResultService grades submissions and aggregates progress.
type ResultService struct {
	store    Store
	quizzes  QuizReader
	hub      *LeaderboardHub
	notifier Notifier
	now      func() time.Time
}

func NewResultService(store Store, quizzes QuizReader, hub *LeaderboardHub) *ResultService {
	return NewResultServiceWithClock(store, quizzes, hub, time.Now)
}

// NewResultServiceWithClock allows deterministic timestamps in tests.
func NewResultServiceWithClock(store Store, quizzes QuizReader, hub *LeaderboardHub, now func() time.Time) *ResultService {
	return &ResultService{store: store, quizzes: quizzes, hub: hub, now: now}
}

// UseNotifier routes leaderboard change announcements through n instead of
// refreshing the local hub directly.
func (s *ResultService) UseNotifier(n Notifier) {
	s.notifier = n
}

// SubmitResult grades answers and stores them as the user's single result for the quiz.
// A resubmission replaces the previous answers and counts in place; created reports a first submission.
func (s *ResultService) SubmitResult(ctx context.Context, userID, quizID string, answers []domain.AnswerSubmission) (domain.Result, bool, error) {
	if userID == "" || quizID == "" {
		return domain.Result{}, false, domain.Validationf("user and quiz are required")
	}
	if len(answers) == 0 {
		return domain.Result{}, false, domain.Validationf("at least one answer is required")
	}

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Result{}, false, err
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return domain.Result{}, false, err
	}

	grade := GradeSubmission(quiz, answers)
	stored, created, err := s.store.UpsertResult(ctx, domain.Result{
		ID:             uuid.NewString(),
		UserID:         userID,
		QuizID:         quizID,
		Answers:        grade.Answers,
		Score:          grade.Score,
		CorrectCount:   grade.CorrectCount,
		WrongCount:     grade.WrongCount,
		AttemptedCount: grade.AttemptedCount,
		SubmittedAt:    s.now().UTC(),
	})
	if err != nil {
		return domain.Result{}, false, fmt.Errorf("store result: %w", err)
	}
	if created {
		if err := s.store.AppendQuizTaken(ctx, userID, stored.ID); err != nil {
			return domain.Result{}, false, fmt.Errorf("link result to user: %w", err)
		}
	}

	s.announce(ctx)
	return stored, created, nil
}

// GetUserResults lists a user's results with quiz detail attached.
func (s *ResultService) GetUserResults(ctx context.Context, userID string) ([]domain.Result, error) {
	results, err := s.store.ListResultsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range results {
		if err := s.attachQuiz(ctx, &results[i]); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// GetResultForQuizAndUser returns the user's result for a quiz.
func (s *ResultService) GetResultForQuizAndUser(ctx context.Context, quizID, userID string) (domain.Result, error) {
	result, err := s.store.GetResult(ctx, userID, quizID)
	if err != nil {
		return domain.Result{}, err
	}
	if err := s.attachQuiz(ctx, &result); err != nil {
		return domain.Result{}, err
	}
	return result, nil
}

// attachQuiz is best effort: results outlive deleted quizzes.
func (s *ResultService) attachQuiz(ctx context.Context, result *domain.Result) error {
	quiz, err := s.quizzes.GetQuiz(ctx, result.QuizID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil
		}
		return err
	}
	result.QuizDetail = &quiz
	return nil
}

// Leaderboard returns the ranked completion board over every user with role user.
func (s *ResultService) Leaderboard(ctx context.Context) (domain.Leaderboard, error) {
	users, err := s.store.ListUsers(ctx, domain.RoleUser)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	quizzes, err := s.store.ListQuizzes(ctx, domain.QuizFilter{})
	if err != nil {
		return domain.Leaderboard{}, err
	}
	results, err := s.store.ListResults(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return domain.Leaderboard{
		Entries:   RankLeaderboard(ComputeLeaderboard(users, quizzes, results)),
		UpdatedAt: s.now().UTC(),
	}, nil
}

// Progress summarizes the user's completion overall and per category.
func (s *ResultService) Progress(ctx context.Context, userID string) (domain.Progress, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return domain.Progress{}, err
	}
	quizzes, err := s.store.ListQuizzes(ctx, domain.QuizFilter{})
	if err != nil {
		return domain.Progress{}, err
	}
	quizzes, err = populateQuizzes(ctx, s.store, quizzes)
	if err != nil {
		return domain.Progress{}, err
	}
	results, err := s.store.ListResultsByUser(ctx, userID)
	if err != nil {
		return domain.Progress{}, err
	}
	return ComputeProgress(categories, AnnotateQuizzes(quizzes, results)), nil
}

// PublishLeaderboard recomputes the leaderboard and pushes it to live subscribers.
func (s *ResultService) PublishLeaderboard(ctx context.Context) error {
	if s.hub == nil {
		return nil
	}
	lb, err := s.Leaderboard(ctx)
	if err != nil {
		return err
	}
	s.hub.Broadcast(lb)
	return nil
}

func (s *ResultService) announce(ctx context.Context) {
	var err error
	if s.notifier != nil {
		err = s.notifier.LeaderboardChanged(ctx)
	} else {
		err = s.PublishLeaderboard(ctx)
	}
	if err != nil {
		log.Printf("leaderboard update failed: %v", err)
	}
}
