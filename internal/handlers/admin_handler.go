package handlers

import (
	"net/http"

	"quetest-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	Questions *service.QuestionService
	Results   *service.ResultService
}

func NewAdminHandler(questions *service.QuestionService, results *service.ResultService) *AdminHandler {
	return &AdminHandler{Questions: questions, Results: results}
}

type dashboardRequest struct {
	DeleteTestCode string `json:"deleteTestCode"`
}

// Dashboard lists all results and the distinct quiz/testcode pairs. An
// optional deleteTestCode purges that code first; an unknown code deletes
// nothing and is still a 200.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	var req dashboardRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if req.DeleteTestCode != "" {
		if err := h.Questions.DeleteByTestcode(c.Request.Context(), req.DeleteTestCode); err != nil {
			writeError(c, err)
			return
		}
	}

	results, err := h.Results.ListResults(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard data"})
		return
	}
	quizzes, err := h.Questions.ListDistinctQuizzes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"quizzes": quizzes,
	})
}
