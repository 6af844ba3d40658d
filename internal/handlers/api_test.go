package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quetest-service/internal/apperr"
	"quetest-service/internal/models"
	"quetest-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// In-memory stores backing a fully wired router.

type memQuestionStore struct {
	groups []*models.QuestionGroup
}

func (m *memQuestionStore) CreateGroup(_ context.Context, group *models.QuestionGroup) error {
	if group.ID.IsZero() {
		group.ID = primitive.NewObjectID()
	}
	copied := *group
	m.groups = append(m.groups, &copied)
	return nil
}

func (m *memQuestionStore) FindGroupByTestcode(_ context.Context, code string) (*models.QuestionGroup, error) {
	for _, g := range m.groups {
		if strings.EqualFold(g.Testcode, code) {
			copied := *g
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memQuestionStore) AppendQuestion(_ context.Context, code string, q models.Question) error {
	for _, g := range m.groups {
		if !strings.EqualFold(g.Testcode, code) {
			continue
		}
		for _, existing := range g.Questions {
			if strings.EqualFold(existing.Text, q.Text) {
				return apperr.ErrDuplicate
			}
		}
		g.Questions = append(g.Questions, q)
		return nil
	}
	return fmt.Errorf("%w: no question group for testcode %q", apperr.ErrNotFound, code)
}

func (m *memQuestionStore) QuestionsByTestcode(_ context.Context, code string) ([]models.Question, error) {
	var questions []models.Question
	for _, g := range m.groups {
		for _, q := range g.Questions {
			if strings.EqualFold(q.Testcode, code) {
				questions = append(questions, q)
			}
		}
	}
	return questions, nil
}

func (m *memQuestionStore) DistinctQuizzes(_ context.Context) ([]models.QuizRef, error) {
	seen := map[string]bool{}
	quizzes := []models.QuizRef{}
	for _, g := range m.groups {
		for _, q := range g.Questions {
			key := q.Quizname + "-" + q.Testcode
			if seen[key] {
				continue
			}
			seen[key] = true
			quizzes = append(quizzes, models.QuizRef{QuizName: q.Quizname, TestCode: q.Testcode})
		}
	}
	return quizzes, nil
}

func (m *memQuestionStore) DeleteByTestcode(_ context.Context, code string) error {
	for _, g := range m.groups {
		kept := g.Questions[:0]
		for _, q := range g.Questions {
			if !strings.EqualFold(q.Testcode, code) {
				kept = append(kept, q)
			}
		}
		g.Questions = kept
	}
	return nil
}

func (m *memQuestionStore) ListGroups(_ context.Context) ([]models.QuestionGroup, error) {
	groups := make([]models.QuestionGroup, 0, len(m.groups))
	for _, g := range m.groups {
		groups = append(groups, *g)
	}
	return groups, nil
}

func (m *memQuestionStore) RotateTestcode(_ context.Context, groupID primitive.ObjectID, oldCode, newCode string) (bool, error) {
	for _, g := range m.groups {
		if g.ID != groupID || g.Testcode != oldCode {
			continue
		}
		g.Testcode = newCode
		for i := range g.Questions {
			g.Questions[i].Testcode = newCode
		}
		return true, nil
	}
	return false, nil
}

type memSessionStore struct {
	sessions map[string]*models.StudentSession
}

func (m *memSessionStore) Create(_ context.Context, session *models.StudentSession) error {
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	copied := *session
	m.sessions[session.ID.Hex()] = &copied
	return nil
}

func (m *memSessionStore) FindByID(_ context.Context, id string) (*models.StudentSession, error) {
	session, ok := m.sessions[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

type memResultStore struct {
	results []models.Result
}

func (m *memResultStore) Create(_ context.Context, result *models.Result) error {
	if result.ID.IsZero() {
		result.ID = primitive.NewObjectID()
	}
	m.results = append(m.results, *result)
	return nil
}

func (m *memResultStore) FindAll(_ context.Context) ([]models.Result, error) {
	return append([]models.Result{}, m.results...), nil
}

// newTestRouter wires the full API over in-memory stores, mirroring main.
func newTestRouter(t *testing.T) (*gin.Engine, *service.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("open sesame"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	questions := &memQuestionStore{}
	sessions := &memSessionStore{sessions: map[string]*models.StudentSession{}}
	results := &memResultStore{}

	tokens := service.NewTokenService("test-secret", time.Hour)
	admins := service.NewStaticAdminStore([]models.AdminCredential{
		{Name: "jo admin", Email: "jo@example.com", PasswordHash: string(hash)},
	})

	questionService := service.NewQuestionService(questions)
	authService := service.NewAuthService(sessions, questions, admins, tokens, true)
	resultService := service.NewResultService(results, sessions, false)

	authHandler := NewAuthHandler(authService, nil)
	questionHandler := NewQuestionHandler(questionService, authService, nil)
	resultHandler := NewResultHandler(resultService, nil)
	adminHandler := NewAdminHandler(questionService, resultService)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/user/auth", authHandler.RegisterStudent)
	api.POST("/admin/auth", authHandler.AdminLogin)
	api.POST("/question/uploading/page", RequireAuth(tokens, models.RoleAdmin), questionHandler.UploadQuestions)
	api.POST("/admin/db", RequireAuth(tokens, models.RoleAdmin), adminHandler.Dashboard)
	api.POST("/test/page", RequireAuth(tokens, models.RoleStudent), questionHandler.FetchAssigned)
	api.POST("/score/page", RequireAuth(tokens, models.RoleStudent), resultHandler.SubmitResult)
	return r, tokens
}

func doJSON(t *testing.T, r *gin.Engine, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

func adminToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, "/api/admin/auth", "", gin.H{
		"name": "Jo Admin", "email": "jo@example.com", "password": "open sesame",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin login: %d %s", w.Code, w.Body.String())
	}
	return decode(t, w)["token"].(string)
}

func uploadBatch(t *testing.T, r *gin.Engine, token string) string {
	t.Helper()
	w := doJSON(t, r, "/api/question/uploading/page", token, gin.H{
		"quizname": "math",
		"questions": []gin.H{
			{"question": "What is 2+2?", "options": []string{"3", "4"}, "answer": "4", "explanation": "arithmetic", "addScore": 4, "subScore": 1},
			{"question": "What is 3*3?", "options": []string{"6", "9"}, "answer": "9", "explanation": "arithmetic", "addScore": 4, "subScore": 1},
			{"question": "What is 10/2?", "options": []string{"5", "2"}, "answer": "5", "explanation": "arithmetic", "addScore": 4, "subScore": 1},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}
	return decode(t, w)["testcode"].(string)
}

func studentToken(t *testing.T, r *gin.Engine, code string) string {
	t.Helper()
	w := doJSON(t, r, "/api/user/auth", "", gin.H{
		"name": "ada", "userclass": "10A", "testcode": code,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	return decode(t, w)["token"].(string)
}

func TestStudentQuizFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	code := uploadBatch(t, r, adminToken(t, r))
	token := studentToken(t, r, code)

	// Fetch assigned questions.
	w := doJSON(t, r, "/api/test/page", token, gin.H{})
	if w.Code != http.StatusOK {
		t.Fatalf("test page: %d %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	questions := body["questions"].([]any)
	if len(questions) != 3 {
		t.Fatalf("fetched %d questions, want 3", len(questions))
	}
	if body["testcode"].(string) != code {
		t.Errorf("testcode = %v, want %s", body["testcode"], code)
	}

	// Submit 2 correct, 1 incorrect with addScore=4, subScore=1.
	w = doJSON(t, r, "/api/score/page", token, gin.H{
		"results": []gin.H{
			{"question": "What is 2+2?", "userAnswer": "4", "correctAnswer": "4", "addScore": 4, "subScore": 1},
			{"question": "What is 3*3?", "userAnswer": "9", "correctAnswer": "9", "addScore": 4, "subScore": 1},
			{"question": "What is 10/2?", "userAnswer": "2", "correctAnswer": "5", "addScore": 4, "subScore": 1},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("score page: %d %s", w.Code, w.Body.String())
	}
	body = decode(t, w)
	summary := body["summary"].(map[string]any)
	if summary["finalScore"].(float64) != 7 {
		t.Errorf("finalScore = %v, want 7", summary["finalScore"])
	}
	if summary["totalPossible"].(float64) != 12 {
		t.Errorf("totalPossible = %v, want 12", summary["totalPossible"])
	}
	if body["name"].(string) != "ada" || body["userclass"].(string) != "10A" {
		t.Errorf("identity echo = %v / %v", body["name"], body["userclass"])
	}
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, "/api/user/auth", "", gin.H{"name": "ada"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing fields: %d, want 400", w.Code)
	}

	w = doJSON(t, r, "/api/user/auth", "", gin.H{
		"name": "ada", "userclass": "10A", "testcode": "ghost-00000000",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown testcode: %d, want 400", w.Code)
	}
}

func TestAdminLoginRejected(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, "/api/admin/auth", "", gin.H{
		"name": "jo admin", "email": "jo@example.com", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password: %d, want 401", w.Code)
	}
}

func TestUploadRequiresAdminCredential(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, "/api/question/uploading/page", "", gin.H{"quizname": "math"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: %d, want 401", w.Code)
	}

	code := uploadBatch(t, r, adminToken(t, r))
	student := studentToken(t, r, code)
	w = doJSON(t, r, "/api/question/uploading/page", student, gin.H{"quizname": "math"})
	if w.Code != http.StatusForbidden {
		t.Errorf("student token on admin route: %d, want 403", w.Code)
	}
}

func TestExpiredCredentialRejected(t *testing.T) {
	r, _ := newTestRouter(t)
	code := uploadBatch(t, r, adminToken(t, r))
	_ = studentToken(t, r, code)

	// Same secret, already-expired TTL.
	expired, err := service.NewTokenService("test-secret", -2*time.Hour).IssueStudent("abc")
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}

	for _, path := range []string{"/api/test/page", "/api/score/page"} {
		w := doJSON(t, r, path, expired, gin.H{})
		if w.Code != http.StatusForbidden {
			t.Errorf("%s with expired token: %d, want 403", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "expired") {
			t.Errorf("%s expiry message missing: %s", path, w.Body.String())
		}
	}
}

func TestDuplicateAppendRejected(t *testing.T) {
	r, _ := newTestRouter(t)
	admin := adminToken(t, r)
	code := uploadBatch(t, r, admin)

	w := doJSON(t, r, "/api/question/uploading/page", admin, gin.H{
		"testcode": code,
		"questions": []gin.H{
			{"question": "WHAT IS 2+2?", "options": []string{"3", "4"}, "answer": "4"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate append: %d %s, want 400", w.Code, w.Body.String())
	}
}

func TestDashboardListsAndDeletes(t *testing.T) {
	r, _ := newTestRouter(t)
	admin := adminToken(t, r)
	code := uploadBatch(t, r, admin)

	// Complete one attempt so a result shows up.
	student := studentToken(t, r, code)
	w := doJSON(t, r, "/api/score/page", student, gin.H{
		"results": []gin.H{
			{"question": "What is 2+2?", "userAnswer": "4", "correctAnswer": "4", "addScore": 4, "subScore": 1},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("score: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, "/api/admin/db", admin, gin.H{})
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: %d %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if len(body["results"].([]any)) != 1 {
		t.Errorf("results = %v, want one entry", body["results"])
	}
	quizzes := body["quizzes"].([]any)
	if len(quizzes) != 1 {
		t.Fatalf("quizzes = %v, want one pair", quizzes)
	}
	pair := quizzes[0].(map[string]any)
	if pair["quizName"] != "math" || pair["testCode"] != code {
		t.Errorf("pair = %v, want math/%s", pair, code)
	}

	// Purge the code, then the pair is gone while the result history stays.
	w = doJSON(t, r, "/api/admin/db", admin, gin.H{"deleteTestCode": code})
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard delete: %d %s", w.Code, w.Body.String())
	}
	body = decode(t, w)
	if len(body["quizzes"].([]any)) != 0 {
		t.Errorf("quizzes after delete = %v, want none", body["quizzes"])
	}
	if len(body["results"].([]any)) != 1 {
		t.Errorf("results after delete = %v, want still one", body["results"])
	}

	// Deleting a nonexistent code is still a 200.
	w = doJSON(t, r, "/api/admin/db", admin, gin.H{"deleteTestCode": "ghost-00000000"})
	if w.Code != http.StatusOK {
		t.Errorf("delete unknown code: %d, want 200", w.Code)
	}
}
