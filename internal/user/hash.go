package user

import (
	"bytes"
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/argon2"
)

type (
	// Hasher derives password hashes using argon2id. It is the credential
	// collaborator for the auth layer; the user service itself never
	// hashes or compares anything.
	Hasher struct {
		time    uint32
		memory  uint32
		threads uint8
		keyLen  uint32
		saltLen uint32
	}

	// Credential is a derived hash together with the salt used to
	// derive it.
	Credential struct {
		Hash []byte
		Salt []byte
	}
)

func NewHasher() *Hasher {
	return &Hasher{time: 1, saltLen: 64, memory: 64 * 1024, threads: 1, keyLen: 128}
}

// GenerateHash hashes the password with the provided salt. When no salt is
// given a random one of the configured length is generated.
func (h *Hasher) GenerateHash(password, salt []byte) (Credential, error) {
	var err error
	if len(salt) == 0 {
		salt, err = randomSecret(h.saltLen)
	}
	if err != nil {
		return Credential{}, err
	}

	hash := argon2.IDKey(password, salt, h.time, h.memory, h.threads, h.keyLen)
	return Credential{Hash: hash, Salt: salt}, nil
}

// Compare re-derives the hash for the given password and salt and checks
// it against the stored hash.
func (h *Hasher) Compare(hash, salt, password []byte) error {
	derived, err := h.GenerateHash(password, salt)
	if err != nil {
		return err
	}

	if !bytes.Equal(hash, derived.Hash) {
		return errors.New("hash doesn't match")
	}

	return nil
}

func randomSecret(length uint32) ([]byte, error) {
	secret := make([]byte, length)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}

	return secret, nil
}
