package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 64
	hashBytes  = 64
	iterations = 100_000
)

// HashPassword derives a salted PBKDF2-SHA512 hash and returns hash and salt
// hex-encoded, stored as separate columns on the account.
func HashPassword(password string) (hash, salt string, err error) {
	rawSalt := make([]byte, saltBytes)
	if _, err := rand.Read(rawSalt); err != nil {
		return "", "", fmt.Errorf("generating salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), rawSalt, iterations, hashBytes, sha512.New)
	return hex.EncodeToString(key), hex.EncodeToString(rawSalt), nil
}

// CheckPassword re-derives the hash with the stored salt and compares in
// constant time.
func CheckPassword(password, storedHash, storedSalt string) bool {
	rawSalt, err := hex.DecodeString(storedSalt)
	if err != nil {
		return false
	}
	rawHash, err := hex.DecodeString(storedHash)
	if err != nil {
		return false
	}

	key := pbkdf2.Key([]byte(password), rawSalt, iterations, len(rawHash), sha512.New)
	return subtle.ConstantTimeCompare(rawHash, key) == 1
}
