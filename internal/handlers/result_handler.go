package handlers

import (
	"net/http"

	"quetest-service/internal/models"
	"quetest-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ResultHandler struct {
	Service *service.ResultService
	Events  service.EventSink
}

func NewResultHandler(s *service.ResultService, events service.EventSink) *ResultHandler {
	return &ResultHandler{Service: s, Events: events}
}

type submitResultRequest struct {
	Results []models.AnsweredQuestion `json:"results"`
}

// SubmitResult scores and persists the authenticated student's answers, then
// echoes the identity fields the client renders on the report.
func (h *ResultHandler) SubmitResult(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no token found"})
		return
	}

	var req submitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Service.SubmitResult(c.Request.Context(), claims.SessionID, req.Results)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.Events != nil {
		h.Events.Publish("result.submitted", gin.H{"session_id": result.SessionID, "testcode": result.Testcode})
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Quiz results saved successfully",
		"name":      result.Name,
		"userclass": result.Userclass,
		"testcode":  result.Testcode,
		"summary":   result.Summary,
		"results":   result.Answers,
	})
}
