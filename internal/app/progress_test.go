package app

import (
	"reflect"
	"testing"

	"quiz-portal-service/internal/domain"
)

func TestComputeLeaderboardCountsDistinctQuizzes(t *testing.T) {
	users := []domain.User{
		{ID: "a", Username: "A", Role: domain.RoleUser},
		{ID: "b", Username: "B", Role: domain.RoleUser},
		{ID: "root", Username: "root", Role: domain.RoleAdmin},
	}
	quizzes := []domain.Quiz{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}
	results := []domain.Result{
		{UserID: "a", QuizID: "1"},
		{UserID: "a", QuizID: "2"},
		{UserID: "b", QuizID: "1"},
		{UserID: "b", QuizID: "1"},
		{UserID: "root", QuizID: "3"},
	}

	entries := ComputeLeaderboard(users, quizzes, results)
	if len(entries) != 2 {
		t.Fatalf("admins must be excluded, got %+v", entries)
	}
	byID := map[string]domain.LeaderboardEntry{}
	for _, e := range entries {
		byID[e.UserID] = e
	}
	if a := byID["a"]; a.CompletedCount != 2 || a.Percent != 50 || a.TotalQuizzes != 4 {
		t.Fatalf("unexpected A %+v", a)
	}
	if b := byID["b"]; b.CompletedCount != 1 || b.Percent != 25 {
		t.Fatalf("unexpected B %+v", b)
	}
}

func TestComputeLeaderboardBounds(t *testing.T) {
	users := []domain.User{{ID: "a", Username: "a", Role: domain.RoleUser}}
	if e := ComputeLeaderboard(users, nil, []domain.Result{{UserID: "a", QuizID: "gone"}}); e[0].Percent != 0 || e[0].CompletedCount != 0 {
		t.Fatalf("expected 0%% without quizzes, got %+v", e[0])
	}

	quizzes := []domain.Quiz{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	results := []domain.Result{{UserID: "a", QuizID: "1"}, {UserID: "a", QuizID: "deleted"}}
	e := ComputeLeaderboard(users, quizzes, results)[0]
	if e.CompletedCount != 1 || e.Percent != 33 {
		t.Fatalf("results for missing quizzes must be ignored, got %+v", e)
	}

	all := []domain.Result{{UserID: "a", QuizID: "1"}, {UserID: "a", QuizID: "2"}, {UserID: "a", QuizID: "3"}}
	if e := ComputeLeaderboard(users, quizzes, all)[0]; e.Percent != 100 {
		t.Fatalf("expected 100%%, got %+v", e)
	}
}

func TestRankLeaderboard(t *testing.T) {
	entries := []domain.LeaderboardEntry{
		{Username: "carol", Percent: 50},
		{Username: "Bob", Percent: 75},
		{Username: "alice", Percent: 50},
	}
	ranked := RankLeaderboard(entries)
	got := []string{ranked[0].Username, ranked[1].Username, ranked[2].Username}
	if !reflect.DeepEqual(got, []string{"Bob", "alice", "carol"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if entries[0].Username != "carol" {
		t.Fatalf("input was reordered")
	}
}

func questionsN(n int) []domain.Question {
	out := make([]domain.Question, n)
	for i := range out {
		out[i] = domain.Question{ID: string(rune('a' + i))}
	}
	return out
}

func TestAnnotateQuizzesStatusTransition(t *testing.T) {
	quiz := domain.Quiz{ID: "q", Questions: questionsN(3)}
	result := domain.Result{ID: "r", QuizID: "q", Answers: make([]domain.Answer, 3), Score: 2}

	views := AnnotateQuizzes([]domain.Quiz{quiz}, []domain.Result{result})
	if views[0].Status != domain.StatusCompleted || views[0].UserResult.AnsweredCount != 3 {
		t.Fatalf("expected completed, got %+v", views[0])
	}

	quiz.Questions = questionsN(4)
	views = AnnotateQuizzes([]domain.Quiz{quiz}, []domain.Result{result})
	if views[0].Status != domain.StatusPending || views[0].CurrentQuestionCount != 4 {
		t.Fatalf("expected pending after a question was added, got %+v", views[0])
	}
	if views[0].UserResult == nil || views[0].UserResult.Score != 2 {
		t.Fatalf("pending quiz should still carry the prior result")
	}
}

func TestAnnotateQuizzesAnonymousAndEmpty(t *testing.T) {
	quizzes := []domain.Quiz{{ID: "q", Questions: questionsN(2)}, {ID: "empty"}}
	views := AnnotateQuizzes(quizzes, nil)
	for _, v := range views {
		if v.Status != domain.StatusPending || v.UserResult != nil {
			t.Fatalf("anonymous listing must be pending, got %+v", v)
		}
	}

	views = AnnotateQuizzes(quizzes, []domain.Result{{QuizID: "empty"}})
	if views[1].Status != domain.StatusPending {
		t.Fatalf("a quiz without questions is never completed")
	}
}

func TestAnnotateQuizzesDoesNotMutateInputs(t *testing.T) {
	quizzes := []domain.Quiz{{ID: "q", Title: "T", Questions: questionsN(1)}}
	results := []domain.Result{{QuizID: "q", Answers: make([]domain.Answer, 1)}}
	beforeQ := cloneQuizzes(quizzes)
	beforeR := append([]domain.Result{}, results...)

	views := AnnotateQuizzes(quizzes, results)
	views[0].Title = "changed"

	if !reflect.DeepEqual(quizzes, beforeQ) || !reflect.DeepEqual(results, beforeR) {
		t.Fatalf("inputs were mutated")
	}
}

func cloneQuizzes(in []domain.Quiz) []domain.Quiz {
	out := make([]domain.Quiz, len(in))
	for i, q := range in {
		q.Questions = append([]domain.Question{}, q.Questions...)
		out[i] = q
	}
	return out
}

func TestComputeProgress(t *testing.T) {
	categories := []domain.Category{{ID: "geo", Name: "Geography"}, {ID: "sci", Name: "Science"}, {ID: "empty", Name: "Empty"}}
	views := []domain.QuizView{
		{Quiz: domain.Quiz{ID: "1", CategoryID: "geo"}, Status: domain.StatusCompleted},
		{Quiz: domain.Quiz{ID: "2", CategoryID: "geo"}, Status: domain.StatusPending},
		{Quiz: domain.Quiz{ID: "3", CategoryID: "sci"}, Status: domain.StatusCompleted},
	}
	progress := ComputeProgress(categories, views)
	if progress.Overall != (domain.CompletionRatio{Completed: 2, Total: 3, Percent: 67}) {
		t.Fatalf("unexpected overall %+v", progress.Overall)
	}
	if len(progress.Categories) != 2 {
		t.Fatalf("categories without quizzes must be skipped, got %+v", progress.Categories)
	}
	if geo := progress.Categories[0]; geo.CategoryID != "geo" || geo.Percent != 50 {
		t.Fatalf("unexpected geo %+v", geo)
	}
}
