package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters for key encryption.
	argon2Time        = 3
	argon2Memory      = 64 * 1024 // 64 MB
	argon2Parallelism = 4
	argon2KeyLen      = 32

	// Encryption format sizes.
	saltLen     = 16
	nonceLen    = 12
	checksumLen = 4
)

// EncryptKey encrypts a raw private key with Argon2id + AES-256-GCM.
//
// Output format: salt(16B) || nonce(12B) || AES-GCM(argon2id(password,salt), nonce, key||checksum)
//
// The checksum is SHA256(key)[:4] for verifying correct decryption.
func EncryptKey(key []byte, password string) ([]byte, error) {
	if len(key) != privKeyLen {
		return nil, fmt.Errorf("%w: key is %d bytes", ErrNoKey, len(key))
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("wallet: failed to generate salt: %w", err)
	}

	derivedKey := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Parallelism, argon2KeyLen)

	keyHash := sha256.Sum256(key)
	plaintext := make([]byte, 0, privKeyLen+checksumLen)
	plaintext = append(plaintext, key...)
	plaintext = append(plaintext, keyHash[:checksumLen]...)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("wallet: AES cipher creation failed: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("wallet: GCM creation failed: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("wallet: failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	result := make([]byte, 0, saltLen+nonceLen+len(ciphertext))
	result = append(result, salt...)
	result = append(result, nonce...)
	result = append(result, ciphertext...)
	return result, nil
}

// DecryptKey reverses EncryptKey. A wrong password fails GCM authentication
// and returns ErrDecryptionFailed; corrupted-but-authentic data trips the
// checksum instead.
func DecryptKey(encrypted []byte, password string) ([]byte, error) {
	if len(encrypted) < saltLen+nonceLen+checksumLen {
		return nil, ErrDecryptionFailed
	}

	salt := encrypted[:saltLen]
	nonce := encrypted[saltLen : saltLen+nonceLen]
	ciphertext := encrypted[saltLen+nonceLen:]

	derivedKey := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Parallelism, argon2KeyLen)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if len(plaintext) != privKeyLen+checksumLen {
		return nil, ErrDecryptionFailed
	}

	key := plaintext[:privKeyLen]
	storedChecksum := plaintext[privKeyLen:]

	keyHash := sha256.Sum256(key)
	for i := 0; i < checksumLen; i++ {
		if storedChecksum[i] != keyHash[i] {
			return nil, ErrChecksumMismatch
		}
	}
	return key, nil
}
