package app

import (
	"reflect"
	"sort"
	"testing"

	"quiz-portal-service/internal/domain"
)

func TestShufflerPermutesCopies(t *testing.T) {
	options := []domain.Option{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}, {Text: "e"}}
	original := append([]domain.Option{}, options...)
	s := NewShuffler(42)

	changed := false
	for i := 0; i < 20; i++ {
		out := s.Options(options)
		if !reflect.DeepEqual(options, original) {
			t.Fatalf("input mutated")
		}
		if !sameTexts(out, original) {
			t.Fatalf("not a permutation: %+v", out)
		}
		if !reflect.DeepEqual(out, original) {
			changed = true
		}
	}
	if !changed {
		t.Fatalf("20 shuffles never changed the order")
	}
}

func sameTexts(a, b []domain.Option) bool {
	ta, tb := make([]string, len(a)), make([]string, len(b))
	for i := range a {
		ta[i] = a[i].Text
	}
	for i := range b {
		tb[i] = b[i].Text
	}
	sort.Strings(ta)
	sort.Strings(tb)
	return reflect.DeepEqual(ta, tb)
}

func TestShufflerApplyHonorsFlags(t *testing.T) {
	quiz := capitalsQuiz()
	before := capitalsQuiz()

	plain := NewShuffler(1).Apply(quiz)
	if !reflect.DeepEqual(plain.Questions, before.Questions) {
		t.Fatalf("no flags set, order must be kept")
	}

	quiz.ShuffleOptions = true
	quiz.ShuffleQuestions = true
	s := NewShuffler(3)
	for i := 0; i < 10; i++ {
		out := s.Apply(quiz)
		if len(out.Questions) != 2 {
			t.Fatalf("questions lost")
		}
		for _, q := range out.Questions {
			if q.ID == "q1" && !sameTexts(q.Options, before.Questions[0].Options) {
				t.Fatalf("options are not a permutation")
			}
		}
	}
	if !reflect.DeepEqual(quiz.Questions, before.Questions) {
		t.Fatalf("stored order mutated by Apply")
	}
}
