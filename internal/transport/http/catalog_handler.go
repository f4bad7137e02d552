package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-portal-service/internal/app"
	"quiz-portal-service/internal/domain"
)

// CatalogHandler serves categories, quizzes and questions.
type CatalogHandler struct {
	catalog *app.CatalogService
}

func NewCatalogHandler(catalog *app.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CategoryPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type QuestionRequest struct {
	Type           domain.QuestionType `json:"type" binding:"required"`
	Text           string              `json:"text" binding:"required"`
	Options        []domain.Option     `json:"options"`
	CorrectAnswer  string              `json:"correctAnswer"`
	Media          string              `json:"media"`
	TimeLimit      int                 `json:"timeLimit" binding:"gte=0"`
	Difficulty     domain.Difficulty   `json:"difficulty"`
	ShuffleOptions bool                `json:"shuffleOptions"`
}

func (r QuestionRequest) toDomain() domain.Question {
	return domain.Question{
		Type:           r.Type,
		Text:           r.Text,
		Options:        r.Options,
		CorrectAnswer:  r.CorrectAnswer,
		Media:          r.Media,
		TimeLimit:      r.TimeLimit,
		Difficulty:     r.Difficulty,
		ShuffleOptions: r.ShuffleOptions,
	}
}

type QuestionPatchRequest struct {
	Type           *domain.QuestionType `json:"type"`
	Text           *string              `json:"text"`
	Options        *[]domain.Option     `json:"options"`
	CorrectAnswer  *string              `json:"correctAnswer"`
	Media          *string              `json:"media"`
	TimeLimit      *int                 `json:"timeLimit"`
	Difficulty     *domain.Difficulty   `json:"difficulty"`
	ShuffleOptions *bool                `json:"shuffleOptions"`
}

type QuizRequest struct {
	Title            string            `json:"title" binding:"required"`
	Description      string            `json:"description"`
	CategoryID       string            `json:"categoryId" binding:"required"`
	Difficulty       domain.Difficulty `json:"difficulty"`
	TimeLimit        int               `json:"timeLimit" binding:"gte=0"`
	ShuffleQuestions bool              `json:"shuffleQuestions"`
	ShuffleOptions   bool              `json:"shuffleOptions"`
	Questions        []QuestionRequest `json:"questions" binding:"dive"`
}

type QuizPatchRequest struct {
	Title            *string            `json:"title"`
	Description      *string            `json:"description"`
	CategoryID       *string            `json:"categoryId"`
	Difficulty       *domain.Difficulty `json:"difficulty"`
	TimeLimit        *int               `json:"timeLimit"`
	ShuffleQuestions *bool              `json:"shuffleQuestions"`
	ShuffleOptions   *bool              `json:"shuffleOptions"`
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.catalog.CreateCategory(c.Request.Context(), domain.Category{Name: req.Name, Description: req.Description})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req CategoryPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.catalog.UpdateCategory(c.Request.Context(), c.Param("id"), app.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	category, err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) CategoryQuestions(c *gin.Context) {
	questions, err := h.catalog.QuestionsForCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !revealAnswers(c) {
		for i := range questions {
			questions[i] = questions[i].WithoutAnswerKey()
		}
	}
	c.JSON(http.StatusOK, questions)
}

func (h *CatalogHandler) CreateQuiz(c *gin.Context) {
	var req QuizRequest
	if !bindJSON(c, &req) {
		return
	}
	questions := make([]domain.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, q.toDomain())
	}
	quiz, err := h.catalog.CreateQuiz(c.Request.Context(), domain.Quiz{
		Title:            req.Title,
		Description:      req.Description,
		CategoryID:       req.CategoryID,
		Difficulty:       req.Difficulty,
		TimeLimit:        req.TimeLimit,
		ShuffleQuestions: req.ShuffleQuestions,
		ShuffleOptions:   req.ShuffleOptions,
		CreatedBy:        mustSession(c).UserID,
	}, questions)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

// ListQuizzes accepts optional "category" and "difficulty" filters.
func (h *CatalogHandler) ListQuizzes(c *gin.Context) {
	filter := domain.QuizFilter{
		CategoryID: c.Query("category"),
		Difficulty: domain.Difficulty(c.Query("difficulty")),
	}
	if filter.Difficulty != "" && !domain.ValidDifficulty(filter.Difficulty) {
		writeError(c, domain.Validationf("difficulty must be easy, medium or hard"))
		return
	}
	quizzes, err := h.catalog.ListQuizzes(c.Request.Context(), mustSession(c).UserID, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	if !revealAnswers(c) {
		for i := range quizzes {
			quizzes[i].Quiz = quizzes[i].Quiz.WithoutAnswerKey()
		}
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *CatalogHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.catalog.GetQuiz(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !revealAnswers(c) {
		quiz = quiz.WithoutAnswerKey()
	}
	c.JSON(http.StatusOK, quiz)
}

// revealAnswers reports whether the caller may see correct options and answers.
func revealAnswers(c *gin.Context) bool {
	session, ok := sessionFrom(c)
	return ok && session.IsAdmin()
}

func (h *CatalogHandler) UpdateQuiz(c *gin.Context) {
	var req QuizPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	quiz, err := h.catalog.UpdateQuiz(c.Request.Context(), c.Param("id"), app.QuizPatch{
		Title:            req.Title,
		Description:      req.Description,
		CategoryID:       req.CategoryID,
		Difficulty:       req.Difficulty,
		TimeLimit:        req.TimeLimit,
		ShuffleQuestions: req.ShuffleQuestions,
		ShuffleOptions:   req.ShuffleOptions,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *CatalogHandler) DeleteQuiz(c *gin.Context) {
	quiz, err := h.catalog.DeleteQuiz(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *CatalogHandler) AddQuestion(c *gin.Context) {
	var req QuestionRequest
	if !bindJSON(c, &req) {
		return
	}
	question, err := h.catalog.AddQuestion(c.Request.Context(), c.Param("quizId"), req.toDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *CatalogHandler) UpdateQuestion(c *gin.Context) {
	var req QuestionPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	question, err := h.catalog.UpdateQuestion(c.Request.Context(), c.Param("id"), app.QuestionPatch{
		Type:           req.Type,
		Text:           req.Text,
		Options:        req.Options,
		CorrectAnswer:  req.CorrectAnswer,
		Media:          req.Media,
		TimeLimit:      req.TimeLimit,
		Difficulty:     req.Difficulty,
		ShuffleOptions: req.ShuffleOptions,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *CatalogHandler) DeleteQuestion(c *gin.Context) {
	question, err := h.catalog.DeleteQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}
