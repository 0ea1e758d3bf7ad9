package admin

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
)

// HashPassword возвращает Argon2id-хеш в стандартном формате:
// $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("ошибка генерации соли: %w", err)
	}
	hash := argon2.IDKey([]byte(password), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonIterations, argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// argonHash — разобранный хеш Argon2id.
type argonHash struct {
	memory, iterations uint32
	parallelism        uint8
	salt, key          []byte
}

// parseArgon2id разбирает хеш формата HashPassword.
func parseArgon2id(encodedHash string) (argonHash, error) {
	var h argonHash
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return h, fmt.Errorf("%w: не argon2id", common.ErrBadPasswordHash)
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return h, fmt.Errorf("%w: версия %q", common.ErrBadPasswordHash, parts[2])
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.memory, &h.iterations, &h.parallelism); err != nil {
		return h, fmt.Errorf("%w: параметры: %w", common.ErrBadPasswordHash, err)
	}
	if h.memory == 0 || h.iterations == 0 || h.parallelism == 0 {
		return h, fmt.Errorf("%w: нулевые параметры", common.ErrBadPasswordHash)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return h, fmt.Errorf("%w: соль: %w", common.ErrBadPasswordHash, err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return h, fmt.Errorf("%w: хеш: %w", common.ErrBadPasswordHash, err)
	}
	if len(h.key) == 0 {
		return h, fmt.Errorf("%w: пустой хеш", common.ErrBadPasswordHash)
	}
	return h, nil
}

// CheckHash проверяет, что хеш разбирается. Пароль не нужен.
func CheckHash(encodedHash string) error {
	_, err := parseArgon2id(encodedHash)
	return err
}

// verifyArgon2id проверяет пароль по хешу Argon2id. Ошибка — только
// для битого хеша, неверный пароль даёт (false, nil).
func verifyArgon2id(password, encodedHash string) (bool, error) {
	h, err := parseArgon2id(encodedHash)
	if err != nil {
		return false, err
	}
	computed := argon2.IDKey([]byte(password), h.salt, h.iterations, h.memory, h.parallelism, uint32(len(h.key)))
	// Сравнение в постоянном времени
	return subtle.ConstantTimeCompare(computed, h.key) == 1, nil
}
