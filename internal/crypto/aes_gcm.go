package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrInvalidKeySize       = errors.New("invalid AES key size (must be 16, 24, or 32 bytes)")
	ErrInvalidCiphertext    = errors.New("ciphertext too short to contain nonce")
	ErrAuthenticationFailed = errors.New("ciphertext authentication failed")
	ErrInvalidEnvelope      = errors.New("invalid encrypted envelope")
)

// NewAESGCM creates an AES-GCM AEAD for the given key.
func NewAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeySize, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return aead, nil
}

// Encrypt encrypts plaintext with a fresh random nonce, returned as the ciphertext prefix.
func Encrypt(aead cipher.AEAD, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt reverses Encrypt.
func Decrypt(aead cipher.AEAD, ciphertextWithNonce []byte) ([]byte, error) {
	nonceSize := aead.NonceSize()
	if len(ciphertextWithNonce) < nonceSize {
		return nil, ErrInvalidCiphertext
	}

	nonce, ciphertext := ciphertextWithNonce[:nonceSize], ciphertextWithNonce[nonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	return plaintext, nil
}

// envelope is the JSONB shape persisted for encrypted values.
type envelope struct {
	Encrypted string `json:"encrypted"`
}

// SealJSON marshals v, encrypts it and wraps the result as {"encrypted": "<base64>"}.
func SealJSON(aead cipher.AEAD, v any) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal plaintext: %w", err)
	}

	ciphertext, err := Encrypt(aead, plaintext)
	if err != nil {
		return nil, err
	}

	return json.Marshal(envelope{Encrypted: base64.StdEncoding.EncodeToString(ciphertext)})
}

// OpenJSON unwraps an envelope produced by SealJSON and unmarshals the plaintext into v.
func OpenJSON(aead cipher.AEAD, sealed []byte, v any) error {
	var env envelope
	if err := json.Unmarshal(sealed, &env); err != nil || env.Encrypted == "" {
		return ErrInvalidEnvelope
	}

	ciphertext, err := base64.StdEncoding.DecodeString(env.Encrypted)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}

	plaintext, err := Decrypt(aead, ciphertext)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("unmarshal plaintext: %w", err)
	}
	return nil
}
