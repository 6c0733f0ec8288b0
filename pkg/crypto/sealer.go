package crypto

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
)

var ErrNoIdentity = errors.New("no age identity configured")

// Sealer encrypts audit payloads at rest with an age X25519 identity.
type Sealer struct {
	identity  *age.X25519Identity
	recipient *age.X25519Recipient
}

// NewSealer parses an AGE-SECRET-KEY-1... identity string.
func NewSealer(identityKey string) (*Sealer, error) {
	if identityKey == "" {
		return nil, ErrNoIdentity
	}

	identity, err := age.ParseX25519Identity(identityKey)
	if err != nil {
		return nil, fmt.Errorf("parsing identity: %w", err)
	}

	return &Sealer{
		identity:  identity,
		recipient: identity.Recipient(),
	}, nil
}

// GenerateIdentity returns a fresh identity suitable for ENCRYPTION_KEY.
func GenerateIdentity() (string, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return "", fmt.Errorf("generating identity: %w", err)
	}
	return identity.String(), nil
}

func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := age.Encrypt(&buf, s.recipient)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing plaintext: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing encryptor: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *Sealer) Open(ciphertext []byte) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(ciphertext), s.identity)
	if err != nil {
		return nil, fmt.Errorf("creating decryptor: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading plaintext: %w", err)
	}
	return plaintext, nil
}

// SealString seals s and returns standard base64 so the result fits a text column.
func (s *Sealer) SealString(plaintext string) (string, error) {
	sealed, err := s.Seal([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *Sealer) OpenString(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decoding base64: %w", err)
	}

	plaintext, err := s.Open(raw)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// Recipient is the public half of the identity.
func (s *Sealer) Recipient() string {
	return s.recipient.String()
}
