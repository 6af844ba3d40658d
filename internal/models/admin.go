package models

// AdminCredential is one entry of the injected admin list. Passwords are
// stored as bcrypt hashes, never in the clear.
type AdminCredential struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}
