package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// AESTokenCipher encrypts carrier tokens at rest with AES-256-CBC. The key
// is derived from the configured key material with scrypt, and ciphertexts
// are encoded as "ivHex:cipherHex" so stored values are self-contained.
type AESTokenCipher struct {
	key []byte
}

// NewAESTokenCipher derives the AES key from the configured key material
func NewAESTokenCipher(keyMaterial string) (*AESTokenCipher, error) {
	if keyMaterial == "" {
		return nil, fmt.Errorf("token encryption key cannot be empty")
	}
	key, err := scrypt.Key([]byte(keyMaterial), []byte("salt"), 16384, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("derive token key: %w", err)
	}
	return &AESTokenCipher{key: key}, nil
}

// Encrypt encrypts a plaintext token
func (c *AESTokenCipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(encrypted, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(encrypted), nil
}

// Decrypt decrypts a stored token
func (c *AESTokenCipher) Decrypt(ciphertext string) (string, error) {
	parts := strings.SplitN(ciphertext, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("malformed token ciphertext")
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return "", fmt.Errorf("malformed token ciphertext iv")
	}
	encrypted, err := hex.DecodeString(parts[1])
	if err != nil || len(encrypted) == 0 || len(encrypted)%aes.BlockSize != 0 {
		return "", fmt.Errorf("malformed token ciphertext body")
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	decrypted := make([]byte, len(encrypted))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(decrypted, encrypted)

	unpadded, err := pkcs7Unpad(decrypted, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-padding], nil
}
