package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// legacyPrefix is base64("Salted__").
const legacyPrefix = "U2FsdGVkX1"

var legacyMagic = []byte("Salted__")

// openLegacy decrypts an OpenSSL compatible envelope: "Salted__", an 8 byte
// salt, then AES-256-CBC with PKCS#7 padding. Key and IV come from
// EVP_BytesToKey with MD5 and a single iteration.
func openLegacy(encoded, passphrase string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) < 16+aes.BlockSize || !bytes.Equal(raw[:8], legacyMagic) {
		return "", fmt.Errorf("%w: bad legacy header", ErrMalformed)
	}

	salt, body := raw[8:16], raw[16:]
	if len(body)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: legacy body not block aligned", ErrMalformed)
	}

	key, iv := evpBytesToKey([]byte(passphrase), salt, 32, aes.BlockSize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}

	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, body)

	plain, ok := unpad(plain)
	if !ok || !utf8.Valid(plain) {
		return "", ErrAuth
	}
	return string(plain), nil
}

func evpBytesToKey(password, salt []byte, keyLen, ivLen int) ([]byte, []byte) {
	var derived, prev []byte
	for len(derived) < keyLen+ivLen {
		h := md5.New()
		h.Write(prev)
		h.Write(password)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:keyLen], derived[keyLen : keyLen+ivLen]
}

func unpad(b []byte) ([]byte, bool) {
	if len(b) == 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, false
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}
