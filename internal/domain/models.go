package domain

import "time"

// Role gates administrative operations.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Difficulty tags quizzes and questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// QuestionType selects how a question is graded.
type QuestionType string

const (
	QuestionMCQ       QuestionType = "mcq"
	QuestionTrueFalse QuestionType = "truefalse"
)

// User is an account; PasswordHash never leaves the service.
type User struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Avatar       string   `json:"avatar,omitempty"`
	Role         Role     `json:"role"`
	Gender       string   `json:"gender,omitempty"`
	QuizzesTaken []string `json:"quizzesTaken"`
}

// Category groups quizzes.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Option represents a possible answer for an MCQ question.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question belongs to exactly one quiz.
type Question struct {
	ID             string       `json:"id"`
	QuizID         string       `json:"quiz"`
	Type           QuestionType `json:"type"`
	Text           string       `json:"text"`
	Options        []Option     `json:"options,omitempty"`
	CorrectAnswer  string       `json:"correctAnswer,omitempty"`
	Media          string       `json:"media,omitempty"`
	TimeLimit      int          `json:"timeLimit,omitempty"` // seconds
	Difficulty     Difficulty   `json:"difficulty"`
	ShuffleOptions bool         `json:"shuffleOptions"`
}

// Quiz references its questions by id. Questions and Category are populated on reads only.
type Quiz struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	CategoryID       string     `json:"categoryId"`
	QuestionIDs      []string   `json:"questionIds"`
	Difficulty       Difficulty `json:"difficulty"`
	TimeLimit        int        `json:"timeLimit,omitempty"` // seconds for the whole quiz
	ShuffleQuestions bool       `json:"shuffleQuestions"`
	ShuffleOptions   bool       `json:"shuffleOptions"`
	CreatedBy        string     `json:"createdBy,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`

	Category  *Category  `json:"category,omitempty"`
	Questions []Question `json:"questions,omitempty"`
}

// WithoutAnswerKey returns a copy of q with option flags and the correct answer cleared.
func (q Question) WithoutAnswerKey() Question {
	q.CorrectAnswer = ""
	if q.Options != nil {
		options := make([]Option, len(q.Options))
		for i, o := range q.Options {
			options[i] = Option{Text: o.Text}
		}
		q.Options = options
	}
	return q
}

// WithoutAnswerKey returns a copy of q whose populated questions carry no answer key.
func (q Quiz) WithoutAnswerKey() Quiz {
	if q.Questions != nil {
		questions := make([]Question, len(q.Questions))
		for i, question := range q.Questions {
			questions[i] = question.WithoutAnswerKey()
		}
		q.Questions = questions
	}
	return q
}

// QuizFilter narrows quiz listings; empty fields match everything.
type QuizFilter struct {
	CategoryID string
	Difficulty Difficulty
}

// AnswerSubmission is one submitted answer.
type AnswerSubmission struct {
	QuestionID string `json:"question"`
	Selected   string `json:"selected"`
}

// Answer is a graded answer as stored on a Result.
type Answer struct {
	QuestionID string `json:"question"`
	Selected   string `json:"selected"`
	IsCorrect  bool   `json:"isCorrect"`
}

// Result is the single durable record of a user's latest attempt at a quiz.
type Result struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user"`
	QuizID         string    `json:"quiz"`
	Answers        []Answer  `json:"answers"`
	Score          int       `json:"score"`
	CorrectCount   int       `json:"correctCount"`
	WrongCount     int       `json:"wrongCount"`
	AttemptedCount int       `json:"attemptedCount"`
	SubmittedAt    time.Time `json:"submittedAt"`

	QuizDetail *Quiz `json:"quizDetail,omitempty"`
}

// LeaderboardEntry is one user's completion across all quizzes.
type LeaderboardEntry struct {
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	CompletedCount int    `json:"completedCount"`
	TotalQuizzes   int    `json:"totalQuizzes"`
	Percent        int    `json:"percent"`
}

// Leaderboard captures the ranked completion board.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// QuizStatus is derived per user on listings.
type QuizStatus string

const (
	StatusPending   QuizStatus = "pending"
	StatusCompleted QuizStatus = "completed"
)

// ResultSummary is the slice of a Result attached to quiz listings.
type ResultSummary struct {
	ID             string    `json:"id"`
	AnsweredCount  int       `json:"answeredCount"`
	Score          int       `json:"score"`
	AttemptedCount int       `json:"attemptedCount"`
	CorrectCount   int       `json:"correctCount"`
	WrongCount     int       `json:"wrongCount"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// QuizView is a quiz annotated with the caller's status.
type QuizView struct {
	Quiz
	UserResult           *ResultSummary `json:"userResult"`
	CurrentQuestionCount int            `json:"currentQuestionCount"`
	Status               QuizStatus     `json:"status"`
}

// CompletionRatio counts completed quizzes out of a total.
type CompletionRatio struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// CategoryProgress is the completion ratio of one category.
type CategoryProgress struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	CompletionRatio
}

// Progress summarizes a user's completion overall and per category.
type Progress struct {
	Overall    CompletionRatio    `json:"overall"`
	Categories []CategoryProgress `json:"categories"`
}
