package handlers

import (
	"log"
	"net/http"

	"quetest-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Service *service.AuthService
	Events  service.EventSink
}

func NewAuthHandler(s *service.AuthService, events service.EventSink) *AuthHandler {
	return &AuthHandler{Service: s, Events: events}
}

type registerRequest struct {
	Name      string `json:"name"`
	Userclass string `json:"userclass"`
	Testcode  string `json:"testcode"`
}

func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, session, err := h.Service.RegisterStudent(c.Request.Context(), req.Name, req.Userclass, req.Testcode)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.Events != nil {
		h.Events.Publish("student.registered", gin.H{"session_id": session.ID.Hex(), "testcode": session.Testcode})
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully.",
		"token":   token,
	})
}

type adminLoginRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.Service.AdminLogin(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		log.Printf("Login failed for: %s %s", req.Name, req.Email)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Admin logged in successfully",
		"token":   token,
	})
}
