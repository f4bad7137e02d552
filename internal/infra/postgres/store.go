package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-portal-service/internal/domain"
)

// Store keeps every entity as a JSONB document, with the lookup keys mirrored into
// indexed columns.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const uniqueViolation = "23505"

// userDoc persists the password hash that domain.User hides from JSON.
type userDoc struct {
	domain.User
	PasswordHash string `json:"passwordHash"`
}

func (s *Store) CreateUser(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(userDoc{User: user, PasswordHash: user.PasswordHash})
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO users (id, email, role, data) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Email, string(user.Role), data)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.getUser(ctx, `SELECT data FROM users WHERE id=$1`, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.getUser(ctx, `SELECT data FROM users WHERE email=$1`, email)
}

func (s *Store) getUser(ctx context.Context, query string, arg string) (domain.User, error) {
	var raw []byte
	if err := s.pool.QueryRow(ctx, query, arg).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return decodeUser(raw)
}

func decodeUser(raw []byte) (domain.User, error) {
	var doc userDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.User{}, fmt.Errorf("unmarshal user: %w", err)
	}
	user := doc.User
	user.PasswordHash = doc.PasswordHash
	if user.QuizzesTaken == nil {
		user.QuizzesTaken = []string{}
	}
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(userDoc{User: user, PasswordHash: user.PasswordHash})
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE users SET email=$2, role=$3, data=$4 WHERE id=$1`,
		user.ID, user.Email, string(user.Role), data)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM users WHERE ($1 = '' OR role = $1) ORDER BY created_at, id`, string(role))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user, err := decodeUser(raw)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) AppendQuizTaken(ctx context.Context, userID, resultID string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users
		SET data = jsonb_set(data, '{quizzesTaken}', COALESCE(data->'quizzesTaken', '[]'::jsonb) || to_jsonb($2::text))
		WHERE id=$1`, userID, resultID)
	if err != nil {
		return fmt.Errorf("append quiz taken: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, category domain.Category) error {
	data, err := json.Marshal(category)
	if err != nil {
		return fmt.Errorf("marshal category: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `INSERT INTO categories (id, data) VALUES ($1, $2)`, category.ID, data); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	var category domain.Category
	err := s.getDoc(ctx, `SELECT data FROM categories WHERE id=$1`, &category, domain.ErrCategoryNotFound, id)
	return category, err
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return listDocs[domain.Category](ctx, s.pool, `SELECT data FROM categories ORDER BY created_at, id`)
}

func (s *Store) UpdateCategory(ctx context.Context, category domain.Category) error {
	data, err := json.Marshal(category)
	if err != nil {
		return fmt.Errorf("marshal category: %w", err)
	}
	return s.execOne(ctx, domain.ErrCategoryNotFound, `UPDATE categories SET data=$2 WHERE id=$1`, category.ID, data)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.execOne(ctx, domain.ErrCategoryNotFound, `DELETE FROM categories WHERE id=$1`, id)
}

// storedQuiz strips read-time population before a quiz is written.
func storedQuiz(quiz domain.Quiz) domain.Quiz {
	quiz.Questions = nil
	quiz.Category = nil
	if quiz.QuestionIDs == nil {
		quiz.QuestionIDs = []string{}
	}
	return quiz
}

func (s *Store) CreateQuiz(ctx context.Context, quiz domain.Quiz) error {
	quiz = storedQuiz(quiz)
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `INSERT INTO quizzes (id, category_id, difficulty, data) VALUES ($1, $2, $3, $4)`,
		quiz.ID, quiz.CategoryID, string(quiz.Difficulty), data); err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

func (s *Store) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := s.getDoc(ctx, `SELECT data FROM quizzes WHERE id=$1`, &quiz, domain.ErrQuizNotFound, id)
	return quiz, err
}

func (s *Store) ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]domain.Quiz, error) {
	return listDocs[domain.Quiz](ctx, s.pool, `SELECT data FROM quizzes
		WHERE ($1 = '' OR category_id = $1) AND ($2 = '' OR difficulty = $2)
		ORDER BY created_at, id`, filter.CategoryID, string(filter.Difficulty))
}

func (s *Store) UpdateQuiz(ctx context.Context, quiz domain.Quiz) error {
	quiz = storedQuiz(quiz)
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	return s.execOne(ctx, domain.ErrQuizNotFound,
		`UPDATE quizzes SET category_id=$2, difficulty=$3, data=$4 WHERE id=$1`,
		quiz.ID, quiz.CategoryID, string(quiz.Difficulty), data)
}

func (s *Store) DeleteQuiz(ctx context.Context, id string) error {
	return s.execOne(ctx, domain.ErrQuizNotFound, `DELETE FROM quizzes WHERE id=$1`, id)
}

func (s *Store) CreateQuestion(ctx context.Context, question domain.Question) error {
	data, err := json.Marshal(question)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `INSERT INTO questions (id, quiz_id, data) VALUES ($1, $2, $3)`,
		question.ID, question.QuizID, data); err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (s *Store) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	var question domain.Question
	err := s.getDoc(ctx, `SELECT data FROM questions WHERE id=$1`, &question, domain.ErrQuestionNotFound, id)
	return question, err
}

func (s *Store) ListQuestionsByQuiz(ctx context.Context, quizIDs ...string) ([]domain.Question, error) {
	if len(quizIDs) == 0 {
		return []domain.Question{}, nil
	}
	return listDocs[domain.Question](ctx, s.pool,
		`SELECT data FROM questions WHERE quiz_id = ANY($1) ORDER BY created_at, id`, quizIDs)
}

func (s *Store) UpdateQuestion(ctx context.Context, question domain.Question) error {
	data, err := json.Marshal(question)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	return s.execOne(ctx, domain.ErrQuestionNotFound,
		`UPDATE questions SET quiz_id=$2, data=$3 WHERE id=$1`, question.ID, question.QuizID, data)
}

func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	return s.execOne(ctx, domain.ErrQuestionNotFound, `DELETE FROM questions WHERE id=$1`, id)
}

func (s *Store) DeleteQuestionsByQuiz(ctx context.Context, quizID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE quiz_id=$1`, quizID); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

// UpsertResult relies on UNIQUE (user_id, quiz_id): concurrent submissions for one pair
// serialize on the row and the last write wins, keeping the first result's id.
func (s *Store) UpsertResult(ctx context.Context, result domain.Result) (domain.Result, bool, error) {
	result.QuizDetail = nil
	data, err := json.Marshal(result)
	if err != nil {
		return domain.Result{}, false, fmt.Errorf("marshal result: %w", err)
	}

	var (
		raw      []byte
		inserted bool
	)
	err = s.pool.QueryRow(ctx, `INSERT INTO results (id, user_id, quiz_id, data) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, quiz_id)
		DO UPDATE SET data = jsonb_set(EXCLUDED.data, '{id}', to_jsonb(results.id))
		RETURNING data, (xmax = 0)`, result.ID, result.UserID, result.QuizID, data).Scan(&raw, &inserted)
	if err != nil {
		return domain.Result{}, false, fmt.Errorf("upsert result: %w", err)
	}

	var stored domain.Result
	if err := json.Unmarshal(raw, &stored); err != nil {
		return domain.Result{}, false, fmt.Errorf("unmarshal result: %w", err)
	}
	return stored, inserted, nil
}

func (s *Store) GetResult(ctx context.Context, userID, quizID string) (domain.Result, error) {
	var result domain.Result
	err := s.getDoc(ctx, `SELECT data FROM results WHERE user_id=$1 AND quiz_id=$2`,
		&result, domain.ErrResultNotFound, userID, quizID)
	return result, err
}

func (s *Store) ListResultsByUser(ctx context.Context, userID string) ([]domain.Result, error) {
	return listDocs[domain.Result](ctx, s.pool,
		`SELECT data FROM results WHERE user_id=$1 ORDER BY created_at, id`, userID)
}

func (s *Store) ListResults(ctx context.Context) ([]domain.Result, error) {
	return listDocs[domain.Result](ctx, s.pool, `SELECT data FROM results ORDER BY created_at, id`)
}

func (s *Store) getDoc(ctx context.Context, query string, dst any, notFound error, args ...any) error {
	var raw []byte
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound
		}
		return fmt.Errorf("load document: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	return nil
}

func (s *Store) execOne(ctx context.Context, notFound error, query string, args ...any) error {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func listDocs[T any](ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]T, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}
