package app

import (
	"math"
	"sort"
	"strings"

	"quiz-portal-service/internal/domain"
)

// percentOf rounds completed/total to a whole percent, 0 when total is 0.
func percentOf(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// ComputeLeaderboard counts, per user, the distinct quizzes with at least one result.
// Only users with role user are included and results for quizzes that no longer exist are
// ignored, so completedCount never exceeds totalQuizzes. Output order follows users.
func ComputeLeaderboard(users []domain.User, quizzes []domain.Quiz, results []domain.Result) []domain.LeaderboardEntry {
	known := make(map[string]struct{}, len(quizzes))
	for _, q := range quizzes {
		known[q.ID] = struct{}{}
	}

	completed := make(map[string]map[string]struct{})
	for _, r := range results {
		if _, ok := known[r.QuizID]; !ok {
			continue
		}
		set, ok := completed[r.UserID]
		if !ok {
			set = make(map[string]struct{})
			completed[r.UserID] = set
		}
		set[r.QuizID] = struct{}{}
	}

	total := len(quizzes)
	entries := make([]domain.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		if u.Role != domain.RoleUser {
			continue
		}
		done := len(completed[u.ID])
		entries = append(entries, domain.LeaderboardEntry{
			UserID:         u.ID,
			Username:       u.Username,
			CompletedCount: done,
			TotalQuizzes:   total,
			Percent:        percentOf(done, total),
		})
	}
	return entries
}

// RankLeaderboard orders entries by percent descending, then username ascending.
func RankLeaderboard(entries []domain.LeaderboardEntry) []domain.LeaderboardEntry {
	ranked := make([]domain.LeaderboardEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Percent != ranked[j].Percent {
			return ranked[i].Percent > ranked[j].Percent
		}
		return strings.ToLower(ranked[i].Username) < strings.ToLower(ranked[j].Username)
	})
	return ranked
}

// AnnotateQuizzes derives the caller's status for each quiz. results are the caller's own
// results (nil for anonymous listings). A quiz is completed only when the recorded answers
// cover every question the quiz has now. Inputs are not modified.
func AnnotateQuizzes(quizzes []domain.Quiz, results []domain.Result) []domain.QuizView {
	byQuiz := make(map[string]domain.Result, len(results))
	for _, r := range results {
		byQuiz[r.QuizID] = r
	}

	views := make([]domain.QuizView, 0, len(quizzes))
	for _, q := range quizzes {
		view := domain.QuizView{
			Quiz:                 q,
			CurrentQuestionCount: len(q.Questions),
			Status:               domain.StatusPending,
		}
		if r, ok := byQuiz[q.ID]; ok {
			answered := len(r.Answers)
			view.UserResult = &domain.ResultSummary{
				ID:             r.ID,
				AnsweredCount:  answered,
				Score:          r.Score,
				AttemptedCount: r.AttemptedCount,
				CorrectCount:   r.CorrectCount,
				WrongCount:     r.WrongCount,
				SubmittedAt:    r.SubmittedAt,
			}
			if answered == view.CurrentQuestionCount && view.CurrentQuestionCount > 0 {
				view.Status = domain.StatusCompleted
			}
		}
		views = append(views, view)
	}
	return views
}

// ComputeProgress groups annotated quizzes by category. Categories without quizzes are
// left out; the overall ratio covers every listed quiz.
func ComputeProgress(categories []domain.Category, views []domain.QuizView) domain.Progress {
	type tally struct{ done, total int }
	perCategory := make(map[string]*tally)
	overall := tally{}
	for _, v := range views {
		t, ok := perCategory[v.CategoryID]
		if !ok {
			t = &tally{}
			perCategory[v.CategoryID] = t
		}
		t.total++
		overall.total++
		if v.Status == domain.StatusCompleted {
			t.done++
			overall.done++
		}
	}

	progress := domain.Progress{
		Overall: domain.CompletionRatio{
			Completed: overall.done,
			Total:     overall.total,
			Percent:   percentOf(overall.done, overall.total),
		},
		Categories: make([]domain.CategoryProgress, 0, len(categories)),
	}
	for _, c := range categories {
		t, ok := perCategory[c.ID]
		if !ok || t.total == 0 {
			continue
		}
		progress.Categories = append(progress.Categories, domain.CategoryProgress{
			CategoryID: c.ID,
			Name:       c.Name,
			CompletionRatio: domain.CompletionRatio{
				Completed: t.done,
				Total:     t.total,
				Percent:   percentOf(t.done, t.total),
			},
		})
	}
	return progress
}
