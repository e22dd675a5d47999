// Package pagecrypt encrypts rendered page bodies for client-side decryption.
//
// Payload layout: base64(iv || AES-256-CBC(PKCS7(body))), with the key set to
// SHA-256 of the password bytes and a fresh random 16-byte iv per page. The
// browser script splits the iv off and decrypts with WebCrypto.
package pagecrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

var (
	ErrMissingPassword = errors.New("no password configured for encrypted page")
	ErrDecrypt         = errors.New("decryption failed")
)

// Encryptor seals page bodies. Safe for concurrent use when its random
// source is.
type Encryptor struct {
	random io.Reader
}

// Option configures an Encryptor.
type Option func(*Encryptor)

// WithRandom replaces crypto/rand as the iv source.
func WithRandom(r io.Reader) Option {
	return func(e *Encryptor) { e.random = r }
}

// New creates an Encryptor.
func New(opts ...Option) *Encryptor {
	e := &Encryptor{random: rand.Reader}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Key derives the AES-256 key from password.
func Key(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}

// Encrypt returns the base64 payload for plain.
func (e *Encryptor) Encrypt(password string, plain []byte) (string, error) {
	if password == "" {
		return "", ErrMissingPassword
	}
	block, err := aes.NewCipher(Key(password))
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(e.random, iv); err != nil {
		return "", fmt.Errorf("reading iv: %w", err)
	}

	padded := pad(plain)
	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt.
func Decrypt(password, payload string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(raw) < 2*aes.BlockSize || len(raw)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: payload length %d", ErrDecrypt, len(raw))
	}

	block, err := aes.NewCipher(Key(password))
	if err != nil {
		return nil, err
	}
	iv, body := raw[:aes.BlockSize], raw[aes.BlockSize:]
	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, body)

	return unpad(plain)
}

func pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	return append(bytes.Clone(b), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", ErrDecrypt)
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, fmt.Errorf("%w: bad padding", ErrDecrypt)
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrDecrypt)
		}
	}
	return b[:len(b)-n], nil
}
