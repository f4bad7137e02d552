package app

import "quiz-portal-service/internal/domain"

// Grade is the outcome of scoring one submission against a quiz.
type Grade struct {
	Answers        []domain.Answer
	Score          int
	CorrectCount   int
	WrongCount     int
	AttemptedCount int
}

// GradeSubmission scores answers against the quiz's questions. Answers whose question is
// not part of the quiz are kept as incorrect but do not count as attempted.
// MCQ answers match on option text, never on position, so shuffled options grade the same.
func GradeSubmission(quiz domain.Quiz, answers []domain.AnswerSubmission) Grade {
	questions := make(map[string]*domain.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questions[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	grade := Grade{Answers: make([]domain.Answer, 0, len(answers))}
	for _, ans := range answers {
		correct := false
		if question, ok := questions[ans.QuestionID]; ok {
			grade.AttemptedCount++
			correct = isCorrect(question, ans.Selected)
			if correct {
				grade.CorrectCount++
			} else {
				grade.WrongCount++
			}
		}
		grade.Answers = append(grade.Answers, domain.Answer{
			QuestionID: ans.QuestionID,
			Selected:   ans.Selected,
			IsCorrect:  correct,
		})
	}
	grade.Score = grade.CorrectCount
	return grade
}

func isCorrect(question *domain.Question, selected string) bool {
	switch question.Type {
	case domain.QuestionMCQ:
		for _, opt := range question.Options {
			if opt.IsCorrect {
				return opt.Text == selected
			}
		}
		return false
	case domain.QuestionTrueFalse:
		return question.CorrectAnswer == selected
	default:
		return false
	}
}
