package user

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword returns the hex-encoded HMAC-SHA256 of password keyed by
// pepper.
func HashPassword(pepper []byte, password string) string {
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPassword reports whether password hashes to storedHash under pepper.
// The comparison is constant-time.
func VerifyPassword(pepper []byte, password, storedHash string) bool {
	stored, err := hex.DecodeString(storedHash)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(password))
	return subtle.ConstantTimeCompare(mac.Sum(nil), stored) == 1
}
