package security

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 16
	keyBytes   = 64
	iterations = 1000

	// MinPasswordLen is the minimum accepted password length.
	MinPasswordLen = 6
)

var ErrHashingFailed = errors.New("password hashing failed")

// PasswordHasher provides interface for password operations.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

type pbkdf2Hasher struct{}

// NewPBKDF2Hasher returns a hasher producing `salt:hash` hex digests
// (PBKDF2-SHA512, 1000 iterations), the format stored for all existing
// accounts.
func NewPBKDF2Hasher() PasswordHasher {
	return &pbkdf2Hasher{}
}

func (h *pbkdf2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", ErrHashingFailed
	}

	hexSalt := hex.EncodeToString(salt)
	key := pbkdf2.Key([]byte(password), []byte(hexSalt), iterations, keyBytes, sha512.New)
	return fmt.Sprintf("%s:%s", hexSalt, hex.EncodeToString(key)), nil
}

func (h *pbkdf2Hasher) Verify(password, digest string) bool {
	parts := strings.SplitN(digest, ":", 2)
	if len(parts) != 2 {
		return false
	}

	key := pbkdf2.Key([]byte(password), []byte(parts[0]), iterations, keyBytes, sha512.New)
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(key)), []byte(parts[1])) == 1
}

// ValidatePassword enforces the account password policy: at least six
// characters containing at least one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must contain both letters and numbers")
	}
	return nil
}
