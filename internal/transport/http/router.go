package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"quiz-portal-service/internal/app"
	"quiz-portal-service/internal/auth"
	"quiz-portal-service/internal/domain"
)

// Services is everything the router dispatches to.
type Services struct {
	Users    *app.UserService
	Catalog  *app.CatalogService
	Results  *app.ResultService
	Hub      *app.LeaderboardHub
	Resolver *auth.Resolver
}

// NewRouter builds the gin engine serving the REST API under /api/v1 and the live leaderboard.
func NewRouter(s Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "healthy") })
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	users := NewUserHandler(s.Users)
	catalog := NewCatalogHandler(s.Catalog)
	results := NewResultHandler(s.Results)
	live := NewLeaderboardWSHandler(s.Results, s.Hub)

	authed := Authenticate(s.Resolver)
	anyRole := RequireRole(domain.RoleUser, domain.RoleAdmin)
	adminOnly := RequireRole(domain.RoleAdmin)

	api := r.Group("/api/v1")
	{
		user := api.Group("/user")
		{
			user.POST("/signup", users.Signup)
			user.POST("/login", users.Login)
			user.GET("", authed, users.List)
			user.GET("/validate", authed, users.Validate)
			user.PUT("/profile", authed, users.UpdateProfile)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", catalog.ListCategories)
			categories.GET("/:id/questions", catalog.CategoryQuestions)
			categories.POST("", authed, adminOnly, catalog.CreateCategory)
			categories.PUT("/:id", authed, adminOnly, catalog.UpdateCategory)
			categories.DELETE("/:id", authed, adminOnly, catalog.DeleteCategory)
		}

		quizzes := api.Group("/quizzes", authed)
		{
			quizzes.GET("", anyRole, catalog.ListQuizzes)
			quizzes.GET("/:id", anyRole, catalog.GetQuiz)
			quizzes.POST("", adminOnly, catalog.CreateQuiz)
			quizzes.PUT("/:id", adminOnly, catalog.UpdateQuiz)
			quizzes.DELETE("/:id", adminOnly, catalog.DeleteQuiz)
		}

		questions := api.Group("/questions", authed, adminOnly)
		{
			questions.POST("/:quizId", catalog.AddQuestion)
			questions.PUT("/:id", catalog.UpdateQuestion)
			questions.DELETE("/:id", catalog.DeleteQuestion)
		}

		res := api.Group("/results", authed, anyRole)
		{
			res.POST("", results.Submit)
			res.GET("/user/:userId", results.UserResults)
			res.GET("/quiz/:quizId/user/:userId", results.QuizResultForUser)
			res.GET("/leaderboard", results.Leaderboard)
			res.GET("/leaderboard/ws", live.ServeWS)
			res.GET("/progress", results.Progress)
		}
	}
	return r
}
