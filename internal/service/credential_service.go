package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/noah-isme/bw-lms-api/internal/models"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
)

const (
	// PasswordAlgorithm tags records produced by CredentialService.
	PasswordAlgorithm = "pbkdf2-sha256"
	// MaxPasswordIterations caps the derivation cost.
	MaxPasswordIterations = 100000
	// MinPasswordLength is the policy minimum.
	MinPasswordLength = 10

	saltBytes = 16
	keyBytes  = 32
)

// CredentialService derives and verifies password records.
type CredentialService struct {
	iterations int
}

// NewCredentialService clamps iterations to (0, MaxPasswordIterations].
func NewCredentialService(iterations int) *CredentialService {
	if iterations <= 0 || iterations > MaxPasswordIterations {
		iterations = MaxPasswordIterations
	}
	return &CredentialService{iterations: iterations}
}

// Derive computes a password record. A nil salt draws 16 random bytes.
func (s *CredentialService) Derive(password string, salt []byte) (models.PasswordRecord, error) {
	if salt == nil {
		salt = make([]byte, saltBytes)
		if _, err := rand.Read(salt); err != nil {
			return models.PasswordRecord{}, fmt.Errorf("generate salt: %w", err)
		}
	}
	return derive(password, salt, s.iterations), nil
}

// Verify re-derives with the stored salt and iteration count and compares in constant time.
func (s *CredentialService) Verify(password string, record models.PasswordRecord) bool {
	if record.Algorithm != PasswordAlgorithm || record.Iterations <= 0 || record.Iterations > MaxPasswordIterations {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(record.Salt)
	if err != nil {
		return false
	}
	candidate := derive(password, salt, record.Iterations)
	return constantTimeEqual(candidate.Hash, record.Hash)
}

// Burn spends one derivation so unknown usernames take as long as wrong passwords.
func (s *CredentialService) Burn(password string) {
	_ = derive(password, make([]byte, saltBytes), s.iterations)
}

func derive(password string, salt []byte, iterations int) models.PasswordRecord {
	key := pbkdf2.Key([]byte(password), salt, iterations, keyBytes, sha256.New)
	return models.PasswordRecord{
		Algorithm:  PasswordAlgorithm,
		Iterations: iterations,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Hash:       base64.StdEncoding.EncodeToString(key),
	}
}

// constantTimeEqual fails fast only on a length mismatch.
func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ValidatePasswordPolicy returns the first violated rule as a validation error.
func ValidatePasswordPolicy(password string) error {
	if reason := passwordPolicyViolation(password); reason != "" {
		return appErrors.Clone(appErrors.ErrValidation, reason)
	}
	return nil
}

func passwordPolicyViolation(password string) string {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength)
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	switch {
	case !upper:
		return "Password must include an uppercase letter."
	case !lower:
		return "Password must include a lowercase letter."
	case !digit:
		return "Password must include a number."
	case !symbol:
		return "Password must include a symbol."
	}
	return ""
}
