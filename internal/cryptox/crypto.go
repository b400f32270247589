// Package cryptox seals backup snapshots: argon2id key derivation from a
// passphrase plus AES-256-GCM encryption of a JSON document.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16
	keySize  = 32
)

// ErrDecrypt is returned when a sealed document cannot be opened, most often
// because of a wrong passphrase.
var ErrDecrypt = errors.New("unable to decrypt")

// Sealed is the serialisable form of an encrypted document.
type Sealed struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// DeriveKey stretches passphrase into a 32-byte key with argon2id.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, keySize)
}

// Encrypt serializes v to JSON and encrypts it with AES-GCM under key
// (16, 24 or 32 bytes). A fresh random nonce is generated per call.
func Encrypt(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	defer common.WipeByteArray(plaintext)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Decrypt reverses Encrypt and unmarshals the JSON into v.
func Decrypt(ciphertext, nonce, key []byte, v any) error {
	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}

	if len(nonce) != aesgcm.NonceSize() {
		return ErrDecrypt
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return ErrDecrypt
	}
	defer common.WipeByteArray(plaintext)

	return json.Unmarshal(plaintext, v)
}

// SealWithPassphrase encrypts v under a key derived from passphrase and a
// random salt stored alongside the ciphertext.
func SealWithPassphrase(v any, passphrase []byte) (*Sealed, error) {
	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)

	ciphertext, nonce, err := Encrypt(v, key)
	if err != nil {
		return nil, err
	}

	return &Sealed{Salt: salt, Nonce: nonce, Ciphertext: ciphertext}, nil
}

// OpenWithPassphrase decrypts s into v.
func OpenWithPassphrase(s *Sealed, passphrase []byte, v any) error {
	if s == nil || len(s.Salt) == 0 {
		return ErrDecrypt
	}

	key := DeriveKey(passphrase, s.Salt)
	defer common.WipeByteArray(key)

	return Decrypt(s.Ciphertext, s.Nonce, key, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
