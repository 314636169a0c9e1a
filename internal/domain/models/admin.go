// internal/domain/models/admin.go
package models

// AdminCredentials is the single administrator login. PasswordHash is a
// bcrypt hash; the plaintext never touches disk.
type AdminCredentials struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}
