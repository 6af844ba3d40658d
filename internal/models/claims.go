package models

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Claims is the one credential shape used for both roles. Students carry the
// session id they registered under, admins carry their email.
type Claims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	SessionID string `json:"session_id,omitempty"`
	Email     string `json:"email,omitempty"`
}
