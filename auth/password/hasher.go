// Package password hashes and verifies backend user passwords.
//
// New hashes use the configured algorithm; Verify accepts both bcrypt and
// argon2id hashes so stored passwords survive an algorithm switch:
//
//	h := password.NewHasher(cfg)
//	hash, err := h.Hash("s3cret-pass")
//	err = h.Verify("s3cret-pass", hash)
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned when a password does not match its hash.
var ErrMismatch = errors.New("password: invalid password")

const argon2Prefix = "$argon2id$"

// Hasher hashes and verifies passwords.
type Hasher struct {
	cfg Config
}

// NewHasher creates a hasher from configuration.
func NewHasher(cfg Config) *Hasher {
	cfg.ApplyDefaults()
	return &Hasher{cfg: cfg}
}

// Hash returns a new hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password: empty password")
	}
	if h.cfg.Algorithm == AlgorithmArgon2id {
		return h.hashArgon2(password)
	}
	if len(password) > 72 {
		return "", errors.New("password: maximum length is 72 bytes for bcrypt")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

// Verify returns nil when password matches hash.
func (h *Hasher) Verify(password, hash string) error {
	if strings.HasPrefix(hash, argon2Prefix) {
		return verifyArgon2(password, hash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatch
	}
	return nil
}

// NeedsRehash reports whether hash was made with a different algorithm than
// the configured one.
func (h *Hasher) NeedsRehash(hash string) bool {
	isArgon := strings.HasPrefix(hash, argon2Prefix)
	return isArgon != (h.cfg.Algorithm == AlgorithmArgon2id)
}

func (h *Hasher) hashArgon2(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.cfg.Argon2Time, h.cfg.Argon2Memory, h.cfg.Argon2Threads, 32)

	// $argon2id$v=19$m=MEMORY,t=TIME,p=THREADS$SALT$HASH
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version,
		h.cfg.Argon2Memory, h.cfg.Argon2Time, h.cfg.Argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func verifyArgon2(password, encoded string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return errors.New("password: invalid argon2id hash format")
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return fmt.Errorf("password: parse argon2id params: %w", err)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("password: decode salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("password: decode hash: %w", err)
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}
