// Package cryptox provides the symmetric encryption applied to upload
// payloads before they leave the process.
//
// Content is sealed with AES-256-GCM. The cipher key is an arbitrary
// passphrase; the actual AES key is its SHA-256 digest, so callers are
// not forced to manage fixed-length keys. A fresh random nonce is
// generated per message and prepended to the ciphertext, which makes
// the output self-contained: Decrypt needs only the passphrase.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

// Encrypt reads the full content of r and seals it with AES-256-GCM
// under the given passphrase. The returned slice holds the nonce
// followed by the ciphertext.
func Encrypt(key string, r io.Reader) ([]byte, error) {
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt reverses Encrypt. It expects the nonce-prefixed layout
// Encrypt produces and fails if the content was sealed under a
// different passphrase or tampered with.
func Decrypt(key string, data []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(data) < gcm.NonceSize() {
		return nil, fmt.Errorf("content too short: %d bytes", len(data))
	}

	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("opening sealed content: %w", err)
	}

	return plaintext, nil
}

// newGCM derives the AES key from the passphrase and builds the AEAD.
func newGCM(key string) (cipher.AEAD, error) {
	digest := sha256.Sum256([]byte(key))

	block, err := aes.NewCipher(digest[:])
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("initializing GCM: %w", err)
	}

	return gcm, nil
}

// AESGCM adapts the package functions to the Cryptor contract used by
// upload clients.
type AESGCM struct{}

// Encrypt seals the content of r under the given passphrase.
func (AESGCM) Encrypt(key string, r io.Reader) ([]byte, error) {
	return Encrypt(key, r)
}

// Ensure AESGCM satisfies the Cryptor contract.
var _ uploadtypes.Cryptor = AESGCM{}
