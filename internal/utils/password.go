package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces the bcrypt hash stored in
// OPERATOR_PASSWORD_HASH. Exposed so the hash can be generated out of
// band when provisioning the operator credential.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash verifies a login attempt against the configured
// operator hash. The comparison runs at bcrypt cost, hence the tight
// rate limit on the login route.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
