package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfUnwraps(t *testing.T) {
	err := fmt.Errorf("load quiz: %w", ErrQuizNotFound)
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found, got %s", KindOf(err))
	}
	if !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected errors.Is to match sentinel")
	}
	if KindOf(errors.New("boom")) != KindInternal {
		t.Fatalf("expected unclassified errors to be internal")
	}
}

func TestValidateQuestion(t *testing.T) {
	cases := []struct {
		name string
		q    Question
		ok   bool
	}{
		{
			name: "mcq with one correct",
			q: Question{Type: QuestionMCQ, Text: "Capital of France?", Options: []Option{
				{Text: "Paris", IsCorrect: true}, {Text: "Rome"},
			}},
			ok: true,
		},
		{
			name: "mcq with two correct",
			q: Question{Type: QuestionMCQ, Text: "Capital of France?", Options: []Option{
				{Text: "Paris", IsCorrect: true}, {Text: "Rome", IsCorrect: true},
			}},
		},
		{
			name: "mcq with one option",
			q:    Question{Type: QuestionMCQ, Text: "Capital of France?", Options: []Option{{Text: "Paris", IsCorrect: true}}},
		},
		{
			name: "truefalse",
			q:    Question{Type: QuestionTrueFalse, Text: "The sky is blue", CorrectAnswer: "true"},
			ok:   true,
		},
		{
			name: "truefalse bad literal",
			q:    Question{Type: QuestionTrueFalse, Text: "The sky is blue", CorrectAnswer: "True"},
		},
		{
			name: "short prompt",
			q:    Question{Type: QuestionTrueFalse, Text: "Sky", CorrectAnswer: "true"},
		},
		{
			name: "unknown type",
			q:    Question{Type: "essay", Text: "Describe the sky"},
		},
	}
	for _, tc := range cases {
		err := ValidateQuestion(tc.q)
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && KindOf(err) != KindValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestValidateQuiz(t *testing.T) {
	if err := ValidateQuiz(Quiz{Title: "Capitals", CategoryID: "c1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateQuiz(Quiz{Title: "Capitals", CategoryID: "c1", Difficulty: "extreme"}); err == nil {
		t.Fatalf("expected difficulty error")
	}
	if err := ValidateQuiz(Quiz{Title: "Ca", CategoryID: "c1"}); err == nil {
		t.Fatalf("expected title error")
	}
}

func TestWithoutAnswerKeyCopies(t *testing.T) {
	quiz := Quiz{Questions: []Question{
		{Type: QuestionMCQ, Options: []Option{{Text: "Lyon"}, {Text: "Paris", IsCorrect: true}}},
		{Type: QuestionTrueFalse, CorrectAnswer: "true"},
	}}
	redacted := quiz.WithoutAnswerKey()
	if redacted.Questions[0].Options[1].IsCorrect || redacted.Questions[1].CorrectAnswer != "" {
		t.Fatalf("answer key not cleared: %+v", redacted.Questions)
	}
	if redacted.Questions[0].Options[1].Text != "Paris" {
		t.Fatalf("option text lost: %+v", redacted.Questions[0].Options)
	}
	if !quiz.Questions[0].Options[1].IsCorrect || quiz.Questions[1].CorrectAnswer != "true" {
		t.Fatalf("original quiz was mutated")
	}
}
