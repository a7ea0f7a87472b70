// Package cryptox derives password verifiers. Passwords never leave the
// client: both the local store and the account server keep only a random
// salt and a verifier computed from an argon2id key.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/ordo/internal/common"
	"golang.org/x/crypto/argon2"
)

const SaltSize = 32

// NewSalt returns a fresh random salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// DeriveKey stretches password with argon2id (1 pass, 64 MiB, 4 lanes).
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier hashes a derived key into the value stored by backends.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// PasswordVerifier derives the verifier for password+salt and wipes the
// intermediate key.
func PasswordVerifier(password []byte, salt []byte) []byte {
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	return MakeVerifier(key)
}

// CheckVerifier compares verifiers in constant time.
func CheckVerifier(stored, candidate []byte) bool {
	return len(stored) > 0 && subtle.ConstantTimeCompare(stored, candidate) == 1
}
