package domain

// ValidDifficulty reports whether d is one of the known tags.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ValidateQuestion enforces the shape rules per question type.
func ValidateQuestion(q Question) error {
	if len(q.Text) < 5 {
		return Validationf("question text is required and must be at least 5 characters")
	}
	if q.Difficulty != "" && !ValidDifficulty(q.Difficulty) {
		return Validationf("difficulty must be easy, medium, or hard")
	}
	switch q.Type {
	case QuestionMCQ:
		if len(q.Options) < 2 {
			return Validationf("at least two options are required for mcq")
		}
		correct := 0
		for _, opt := range q.Options {
			if opt.Text == "" {
				return Validationf("option text is required")
			}
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return Validationf("exactly one correct option is required for mcq")
		}
	case QuestionTrueFalse:
		if q.CorrectAnswer != "true" && q.CorrectAnswer != "false" {
			return Validationf("correctAnswer must be \"true\" or \"false\" for truefalse")
		}
	default:
		return Validationf("type must be either mcq or truefalse")
	}
	return nil
}

// ValidateQuiz checks the quiz header fields.
func ValidateQuiz(q Quiz) error {
	if len(q.Title) < 3 {
		return Validationf("quiz title is required and must be at least 3 characters")
	}
	if q.CategoryID == "" {
		return Validationf("category is required")
	}
	if q.Difficulty != "" && !ValidDifficulty(q.Difficulty) {
		return Validationf("difficulty must be easy, medium, or hard")
	}
	if q.TimeLimit < 0 {
		return Validationf("timeLimit must not be negative")
	}
	return nil
}

// ValidateCategory checks the category name.
func ValidateCategory(c Category) error {
	if len(c.Name) < 3 {
		return Validationf("category name is required and must be at least 3 characters")
	}
	return nil
}
