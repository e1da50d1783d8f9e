// Package cipher decrypts the encrypted port assignment store.
//
// The on-disk format is [16-byte IV][AES-256-CBC ciphertext] over
// PKCS7-padded UTF-8 JSON. The key is a fixed build-time constant, so this
// is obfuscation against casual inspection, not access control.
package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

const ivSize = aes.BlockSize

var (
	// ErrShortBuffer is returned when the input is smaller than one IV.
	ErrShortBuffer = errors.New("encrypted data shorter than one IV")

	// ErrBadPadding is returned when the PKCS7 padding is invalid, which
	// usually means the file was encrypted with a different key.
	ErrBadPadding = errors.New("invalid PKCS7 padding")

	// ErrNotUTF8 is returned when the decrypted plaintext is not valid UTF-8.
	ErrNotUTF8 = errors.New("decrypted data is not valid UTF-8")
)

// DecryptionError wraps the low-level cause of a failed decryption.
type DecryptionError struct {
	Err error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("failed to decrypt port assignment data: %v", e.Err)
}

func (e *DecryptionError) Unwrap() error { return e.Err }

// Decrypt turns an encrypted assignment store into its plaintext JSON.
func Decrypt(data []byte) (string, error) {
	if len(data) < ivSize {
		return "", &DecryptionError{Err: ErrShortBuffer}
	}

	iv := data[:ivSize]
	ciphertext := data[ivSize:]

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", &DecryptionError{Err: fmt.Errorf("ciphertext length %d is not a multiple of the block size", len(ciphertext))}
	}

	block, err := aes.NewCipher(assignmentKey())
	if err != nil {
		return "", &DecryptionError{Err: err}
	}

	plaintext := make([]byte, len(ciphertext))
	stdcipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = stripPKCS7(plaintext)
	if err != nil {
		return "", &DecryptionError{Err: err}
	}

	if !utf8.Valid(plaintext) {
		return "", &DecryptionError{Err: ErrNotUTF8}
	}

	return string(plaintext), nil
}

// Encrypt is the inverse of Decrypt. It is used by the issuing tool and by
// tests; the verification engine itself never writes the store.
func Encrypt(plaintext string) ([]byte, error) {
	block, err := aes.NewCipher(assignmentKey())
	if err != nil {
		return nil, err
	}

	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	padded := padPKCS7([]byte(plaintext))
	out := make([]byte, ivSize+len(padded))
	copy(out, iv)
	stdcipher.NewCBCEncrypter(block, iv).CryptBlocks(out[ivSize:], padded)

	return out, nil
}

func padPKCS7(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func stripPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrBadPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, ErrBadPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrBadPadding
		}
	}
	return data[:len(data)-n], nil
}
