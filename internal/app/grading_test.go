package app

import (
	"testing"

	"quiz-portal-service/internal/domain"
)

func capitalsQuiz() domain.Quiz {
	return domain.Quiz{
		ID:          "capitals",
		Title:       "Capitals",
		QuestionIDs: []string{"q1", "q2"},
		Questions: []domain.Question{
			{
				ID:   "q1",
				Type: domain.QuestionMCQ,
				Text: "Capital of France?",
				Options: []domain.Option{
					{Text: "Lyon"},
					{Text: "Paris", IsCorrect: true},
					{Text: "Nice"},
				},
			},
			{ID: "q2", Type: domain.QuestionTrueFalse, Text: "Rome is in Italy", CorrectAnswer: "true"},
		},
	}
}

func TestGradeSubmissionCapitals(t *testing.T) {
	grade := GradeSubmission(capitalsQuiz(), []domain.AnswerSubmission{
		{QuestionID: "q1", Selected: "Paris"},
		{QuestionID: "q2", Selected: "false"},
	})
	if grade.AttemptedCount != 2 || grade.CorrectCount != 1 || grade.WrongCount != 1 || grade.Score != 1 {
		t.Fatalf("unexpected grade %+v", grade)
	}
	if !grade.Answers[0].IsCorrect || grade.Answers[1].IsCorrect {
		t.Fatalf("unexpected answer flags %+v", grade.Answers)
	}
}

func TestGradeSubmissionUnknownQuestionNotAttempted(t *testing.T) {
	grade := GradeSubmission(capitalsQuiz(), []domain.AnswerSubmission{
		{QuestionID: "q1", Selected: "Paris"},
		{QuestionID: "ghost", Selected: "Paris"},
	})
	if grade.AttemptedCount != 1 || grade.CorrectCount != 1 || grade.WrongCount != 0 {
		t.Fatalf("unexpected grade %+v", grade)
	}
	if len(grade.Answers) != 2 || grade.Answers[1].IsCorrect {
		t.Fatalf("unresolvable answer should be kept as incorrect: %+v", grade.Answers)
	}
}

func TestGradeSubmissionPartition(t *testing.T) {
	submissions := [][]domain.AnswerSubmission{
		{},
		{{QuestionID: "q1", Selected: "Nice"}},
		{{QuestionID: "q2", Selected: "True"}, {QuestionID: "q2", Selected: "true"}},
		{{QuestionID: "x"}, {QuestionID: "q1", Selected: "Paris"}, {QuestionID: "q2", Selected: "true"}},
	}
	for i, answers := range submissions {
		grade := GradeSubmission(capitalsQuiz(), answers)
		if grade.CorrectCount+grade.WrongCount != grade.AttemptedCount {
			t.Fatalf("case %d: counts do not partition attempted: %+v", i, grade)
		}
		if grade.AttemptedCount > len(answers) {
			t.Fatalf("case %d: attempted exceeds submitted", i)
		}
	}
}

func TestGradeSubmissionTrueFalseIsCaseSensitive(t *testing.T) {
	grade := GradeSubmission(capitalsQuiz(), []domain.AnswerSubmission{{QuestionID: "q2", Selected: "True"}})
	if grade.CorrectCount != 0 || grade.WrongCount != 1 {
		t.Fatalf("expected literal comparison, got %+v", grade)
	}
}

func TestGradeSubmissionWithoutFlaggedOption(t *testing.T) {
	quiz := domain.Quiz{Questions: []domain.Question{{
		ID: "q1", Type: domain.QuestionMCQ,
		Options: []domain.Option{{Text: "a"}, {Text: "b"}},
	}}}
	grade := GradeSubmission(quiz, []domain.AnswerSubmission{{QuestionID: "q1", Selected: "a"}})
	if grade.CorrectCount != 0 || grade.AttemptedCount != 1 {
		t.Fatalf("no answer can be correct without a flagged option: %+v", grade)
	}
}

func TestGradeSubmissionIgnoresOptionOrder(t *testing.T) {
	quiz := capitalsQuiz()
	shuffled := NewShuffler(7).Apply(quiz)
	grade := GradeSubmission(shuffled, []domain.AnswerSubmission{{QuestionID: "q1", Selected: "Paris"}})
	if grade.CorrectCount != 1 {
		t.Fatalf("text match should survive shuffling: %+v", grade)
	}
}
