package handlers

import (
	"net/http"

	"quetest-service/internal/models"
	"quetest-service/internal/service"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	Service *service.QuestionService
	Auth    *service.AuthService
	Events  service.EventSink
}

func NewQuestionHandler(s *service.QuestionService, auth *service.AuthService, events service.EventSink) *QuestionHandler {
	return &QuestionHandler{Service: s, Auth: auth, Events: events}
}

type uploadRequest struct {
	Quizname  string            `json:"quizname"`
	Testcode  string            `json:"testcode"`
	Questions []models.Question `json:"questions"`
}

// UploadQuestions accepts a question batch. Without a testcode a fresh code
// is generated for the quiz name; with one, the batch is appended to that
// group (created on the fly for an unknown code).
func (h *QuestionHandler) UploadQuestions(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.Service.CreateOrAppend(c.Request.Context(), req.Quizname, req.Testcode, req.Questions)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.Events != nil {
		h.Events.Publish("question.uploaded", gin.H{"quizname": group.Quizname, "testcode": group.Testcode})
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Questions added successfully",
		"quizname": group.Quizname,
		"testcode": group.Testcode,
	})
}

// FetchAssigned returns the questions stored under the requesting student's
// testcode.
func (h *QuestionHandler) FetchAssigned(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no token found"})
		return
	}

	session, err := h.Auth.Session(c.Request.Context(), claims.SessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	questions, err := h.Service.FetchByTestcode(c.Request.Context(), session.Testcode)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"testcode":  session.Testcode,
		"questions": questions,
	})
}
