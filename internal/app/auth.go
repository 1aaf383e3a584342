// internal/app/auth.go
package app

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// AdminAuth checks the single admin account. The password is only ever
// held as a bcrypt hash.
type AdminAuth struct {
	username     string
	passwordHash []byte
}

func NewAdminAuth(config *Config) (*AdminAuth, error) {
	hash := []byte(config.Admin.PasswordHash)
	if len(hash) > 0 {
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, fmt.Errorf("admin password hash is not a bcrypt hash: %w", err)
		}
	}

	return &AdminAuth{
		username:     config.Admin.Username,
		passwordHash: hash,
	}, nil
}

func (a *AdminAuth) Enabled() bool {
	return a.username != "" && len(a.passwordHash) > 0
}

func (a *AdminAuth) CheckCredentials(user, pass string) bool {
	if !a.Enabled() {
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.username)) == 1
	// bcrypt runs on every call, userOK or not
	passOK := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(pass)) == nil

	return userOK && passOK
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
