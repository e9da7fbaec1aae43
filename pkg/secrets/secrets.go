package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the length of application and workspace keys in bytes.
const KeySize = 32

var hkdfInfo = []byte("callkit/secrets/v1")

var (
	ErrInvalidKey        = errors.New("secrets: key must be 32 bytes")
	ErrInvalidCiphertext = errors.New("secrets: malformed ciphertext")
	ErrDecryptionFailed  = errors.New("secrets: decryption failed")
	ErrKeyGeneration     = errors.New("secrets: failed to generate key")
)

// GenerateKey returns a random 32-byte key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}
	return key, nil
}

// EncryptBytes encrypts data. The random nonce is prepended to the result.
func EncryptBytes(appKey, workspaceKey, data []byte) ([]byte, error) {
	aead, err := newAEAD(appKey, workspaceKey)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(data)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("secrets: nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, data, nil), nil
}

// DecryptBytes reverses EncryptBytes.
func DecryptBytes(appKey, workspaceKey, ciphertext []byte) ([]byte, error) {
	aead, err := newAEAD(appKey, workspaceKey)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrInvalidCiphertext
	}

	nonce, sealed := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plain, nil
}

// EncryptString encrypts plaintext and returns URL-safe base64 without padding.
func EncryptString(appKey, workspaceKey []byte, plaintext string) (string, error) {
	sealed, err := EncryptBytes(appKey, workspaceKey, []byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString.
func DecryptString(appKey, workspaceKey []byte, token string) (string, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidCiphertext
	}

	plain, err := DecryptBytes(appKey, workspaceKey, sealed)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func newAEAD(appKey, workspaceKey []byte) (cipher.AEAD, error) {
	if len(appKey) != KeySize || len(workspaceKey) != KeySize {
		return nil, ErrInvalidKey
	}

	key := make([]byte, KeySize)
	defer clear(key)

	if _, err := io.ReadFull(hkdf.New(sha256.New, appKey, workspaceKey, hkdfInfo), key); err != nil {
		return nil, fmt.Errorf("secrets: derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("secrets: cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
