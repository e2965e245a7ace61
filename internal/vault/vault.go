package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/crypto/hkdf"

	"codeberg.org/snonux/aitranslator/internal/machine"
)

const (
	formatPrefix = "v1:"
	saltSize     = 16
	keySize      = 32
	hkdfInfo     = "aitranslator credential v1"
)

var (
	// ErrEmpty is returned by Open for an empty ciphertext.
	ErrEmpty = errors.New("no ciphertext")
	// ErrMalformed means the ciphertext could not be parsed.
	ErrMalformed = errors.New("malformed ciphertext")
	// ErrAuth means the ciphertext did not decrypt under the machine key,
	// usually because it was written on another machine or OS install.
	ErrAuth = errors.New("ciphertext does not match machine key")
)

// KeySource supplies the machine secret. It is called on every operation.
type KeySource func() machine.Secret

// Vault encrypts credentials with a machine derived key.
type Vault struct {
	key    KeySource
	rand   io.Reader
	logger *slog.Logger
}

// Option configures a Vault.
type Option func(*Vault)

// WithLogger sets the logger used for decryption diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Vault) {
		v.logger = logger
	}
}

// WithRandom replaces the source of salts and nonces.
func WithRandom(r io.Reader) Option {
	return func(v *Vault) {
		v.rand = r
	}
}

// New creates a vault. A nil source means machine.Derive.
func New(source KeySource, opts ...Option) *Vault {
	if source == nil {
		source = machine.Derive
	}
	v := &Vault{
		key:    source,
		rand:   rand.Reader,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Encrypt seals plaintext with a fresh salt and nonce.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(v.rand, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := v.aead(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(v.rand, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, []byte(plaintext), nil)

	return formatPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt returns the plaintext, or "" when the ciphertext is empty or
// cannot be decrypted. The reason is logged, never returned.
func (v *Vault) Decrypt(ciphertext string) string {
	if ciphertext == "" {
		return ""
	}

	plaintext, err := v.Open(ciphertext)
	if err != nil {
		v.logger.Warn("stored credential could not be decrypted, treating it as not set",
			"reason", err)
		return ""
	}
	return plaintext
}

// Open decrypts ciphertext and reports why it failed.
func (v *Vault) Open(ciphertext string) (string, error) {
	ciphertext = strings.TrimSpace(ciphertext)
	if ciphertext == "" {
		return "", ErrEmpty
	}

	if strings.HasPrefix(ciphertext, formatPrefix) {
		return v.openV1(strings.TrimPrefix(ciphertext, formatPrefix))
	}
	if strings.HasPrefix(ciphertext, legacyPrefix) {
		return openLegacy(ciphertext, v.key().Hex())
	}
	return "", fmt.Errorf("%w: unknown format", ErrMalformed)
}

func (v *Vault) openV1(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) < saltSize {
		return "", fmt.Errorf("%w: too short", ErrMalformed)
	}

	salt := raw[:saltSize]
	gcm, err := v.aead(salt)
	if err != nil {
		return "", err
	}

	rest := raw[saltSize:]
	if len(rest) < gcm.NonceSize()+gcm.Overhead() {
		return "", fmt.Errorf("%w: too short", ErrMalformed)
	}

	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrAuth
	}
	return string(plaintext), nil
}

func (v *Vault) aead(salt []byte) (cipher.AEAD, error) {
	secret := v.key()
	kdf := hkdf.New(sha256.New, secret[:], salt, []byte(hkdfInfo))

	key := make([]byte, keySize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
