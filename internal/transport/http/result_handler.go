package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-portal-service/internal/app"
	"quiz-portal-service/internal/domain"
)

type ResultHandler struct {
	results *app.ResultService
}

func NewResultHandler(results *app.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// SubmitRequest submits answers for a quiz. User defaults to the caller.
type SubmitRequest struct {
	UserID  string                    `json:"user"`
	QuizID  string                    `json:"quiz" binding:"required"`
	Answers []domain.AnswerSubmission `json:"answers" binding:"required,min=1"`
}

func (h *ResultHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := h.actingFor(c, req.UserID)
	if !ok {
		return
	}
	result, created, err := h.results.SubmitResult(c.Request.Context(), userID, req.QuizID, req.Answers)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (h *ResultHandler) UserResults(c *gin.Context) {
	userID, ok := h.actingFor(c, c.Param("userId"))
	if !ok {
		return
	}
	results, err := h.results.GetUserResults(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *ResultHandler) QuizResultForUser(c *gin.Context) {
	userID, ok := h.actingFor(c, c.Param("userId"))
	if !ok {
		return
	}
	result, err := h.results.GetResultForQuizAndUser(c.Request.Context(), c.Param("quizId"), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ResultHandler) Leaderboard(c *gin.Context) {
	lb, err := h.results.Leaderboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lb)
}

// Progress reports the caller's completion; admins may pass ?user=<id>.
func (h *ResultHandler) Progress(c *gin.Context) {
	userID, ok := h.actingFor(c, c.Query("user"))
	if !ok {
		return
	}
	progress, err := h.results.Progress(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// actingFor resolves the target user id, rejecting users acting for someone else.
func (h *ResultHandler) actingFor(c *gin.Context, requested string) (string, bool) {
	session := mustSession(c)
	if requested == "" {
		return session.UserID, true
	}
	if !session.CanActFor(requested) {
		writeError(c, domain.ErrForbidden)
		return "", false
	}
	return requested, true
}
