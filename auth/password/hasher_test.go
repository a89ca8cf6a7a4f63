package password

import (
	"errors"
	"strings"
	"testing"
)

func TestBcryptRoundTrip(t *testing.T) {
	h := NewHasher(Config{BcryptCost: 4})
	hash, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if err := h.Verify("correct horse", hash); err != nil {
		t.Errorf("Verify: %v", err)
	}
	if err := h.Verify("wrong", hash); !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestArgon2RoundTrip(t *testing.T) {
	h := NewHasher(Config{Algorithm: AlgorithmArgon2id, Argon2Memory: 1024, Argon2Threads: 1})
	hash, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format %q", hash)
	}
	if err := h.Verify("correct horse", hash); err != nil {
		t.Errorf("Verify: %v", err)
	}
	if err := h.Verify("wrong", hash); !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestVerifyAcceptsEitherAlgorithm(t *testing.T) {
	bcryptHasher := NewHasher(Config{BcryptCost: 4})
	argonHasher := NewHasher(Config{Algorithm: AlgorithmArgon2id, Argon2Memory: 1024, Argon2Threads: 1})

	hash, _ := bcryptHasher.Hash("pw-123456")
	if err := argonHasher.Verify("pw-123456", hash); err != nil {
		t.Errorf("argon2id hasher should verify bcrypt hashes: %v", err)
	}
	if !argonHasher.NeedsRehash(hash) {
		t.Error("bcrypt hash should need a rehash under argon2id")
	}
	if bcryptHasher.NeedsRehash(hash) {
		t.Error("bcrypt hash should not need a rehash under bcrypt")
	}
}

func TestHashRejectsEmpty(t *testing.T) {
	if _, err := NewHasher(Config{BcryptCost: 4}).Hash(""); err == nil {
		t.Error("expected error for empty password")
	}
}
