package memory

import (
	"context"
	"testing"

	"quiz-portal-service/internal/domain"
)

func TestUpsertResultKeepsOneResultPerPair(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	first, created, err := store.UpsertResult(ctx, domain.Result{ID: "r1", UserID: "u1", QuizID: "quiz-1", Score: 1})
	if err != nil || !created {
		t.Fatalf("expected insert, created=%v err=%v", created, err)
	}
	second, created, err := store.UpsertResult(ctx, domain.Result{ID: "r2", UserID: "u1", QuizID: "quiz-1", Score: 2})
	if err != nil || created {
		t.Fatalf("expected in-place update, created=%v err=%v", created, err)
	}
	if second.ID != first.ID || second.Score != 2 {
		t.Fatalf("expected id kept and score replaced, got %+v", second)
	}

	all, _ := store.ListResults(ctx)
	if len(all) != 1 {
		t.Fatalf("expected one stored result, got %d", len(all))
	}
	got, err := store.GetResult(ctx, "u1", "quiz-1")
	if err != nil || got.Score != 2 {
		t.Fatalf("expected stored score 2, got %+v err=%v", got, err)
	}
}

func TestStoreCopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	quiz := domain.Quiz{ID: "quiz-1", QuestionIDs: []string{"q1"}, Questions: []domain.Question{{ID: "q1"}}}
	if err := store.CreateQuiz(ctx, quiz); err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	quiz.QuestionIDs[0] = "mutated"

	got, err := store.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got.QuestionIDs[0] != "q1" {
		t.Fatalf("stored quiz shares slices with caller")
	}
	if got.Questions != nil {
		t.Fatalf("populated questions must not be stored")
	}
}

func TestListingsFilterAndKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_ = store.CreateQuiz(ctx, domain.Quiz{ID: "b", CategoryID: "c1", Difficulty: domain.DifficultyEasy})
	_ = store.CreateQuiz(ctx, domain.Quiz{ID: "a", CategoryID: "c2", Difficulty: domain.DifficultyHard})
	_ = store.CreateQuiz(ctx, domain.Quiz{ID: "c", CategoryID: "c1", Difficulty: domain.DifficultyHard})

	all, _ := store.ListQuizzes(ctx, domain.QuizFilter{})
	if len(all) != 3 || all[0].ID != "b" || all[1].ID != "a" || all[2].ID != "c" {
		t.Fatalf("unexpected order %+v", all)
	}
	inCat, _ := store.ListQuizzes(ctx, domain.QuizFilter{CategoryID: "c1", Difficulty: domain.DifficultyHard})
	if len(inCat) != 1 || inCat[0].ID != "c" {
		t.Fatalf("unexpected filtered quizzes %+v", inCat)
	}
}

func TestUsersByEmailAndRole(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if err := store.CreateUser(ctx, domain.User{ID: "u1", Email: "a@example.com", Role: domain.RoleUser}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := store.CreateUser(ctx, domain.User{ID: "u2", Email: "a@example.com"}); err != domain.ErrUserExists {
		t.Fatalf("expected duplicate email conflict, got %v", err)
	}
	_ = store.CreateUser(ctx, domain.User{ID: "a1", Email: "admin@example.com", Role: domain.RoleAdmin})

	users, _ := store.ListUsers(ctx, domain.RoleUser)
	if len(users) != 1 || users[0].ID != "u1" {
		t.Fatalf("expected only role user, got %+v", users)
	}
	if err := store.AppendQuizTaken(ctx, "u1", "r1"); err != nil {
		t.Fatalf("append: %v", err)
	}
	u, _ := store.GetUserByEmail(ctx, "a@example.com")
	if len(u.QuizzesTaken) != 1 || u.QuizzesTaken[0] != "r1" {
		t.Fatalf("expected quizzesTaken [r1], got %v", u.QuizzesTaken)
	}
	if _, err := store.GetUser(ctx, "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestDeleteQuestionsByQuiz(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	_ = store.CreateQuestion(ctx, domain.Question{ID: "q1", QuizID: "quiz-1"})
	_ = store.CreateQuestion(ctx, domain.Question{ID: "q2", QuizID: "quiz-2"})

	if err := store.DeleteQuestionsByQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	left, _ := store.ListQuestionsByQuiz(ctx, "quiz-1", "quiz-2")
	if len(left) != 1 || left[0].ID != "q2" {
		t.Fatalf("unexpected remaining questions %+v", left)
	}
}
