// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: нормализация адресов кошельков, тексты уведомлений,
// форматирование сумм.
package common

import (
	"fmt"
	"regexp"
	"strings"
)

// evmAddress — адрес EVM-кошелька (0x + 40 hex-символов).
var evmAddress = regexp.MustCompile(`^0[xX][0-9a-fA-F]{40}$`)

// NormalizeIdentity приводит идентификатор кошелька к каноническому виду.
//
// Правила:
//   - пробелы по краям отбрасываются
//   - EVM-адрес (0x...) приводится к нижнему регистру, регистр в нём — только checksum
//   - остальные строки считаются непрозрачными и не меняются
//
// Возвращает ErrInvalidIdentity для пустой строки.
func NormalizeIdentity(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrInvalidIdentity
	}
	if evmAddress.MatchString(id) {
		return strings.ToLower(id), nil
	}
	if len(id) > 128 {
		return "", ErrInvalidIdentity
	}
	return id, nil
}

// ShortIdentity сокращает адрес для логов и сообщений: 0x1234...5678.
func ShortIdentity(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:6] + "..." + id[len(id)-4:]
}

// EarnedMessage — текст тоста после начисления.
// Пример: EarnedMessage(2) → "+2 points earned"
func EarnedMessage(amount int64) string {
	return FormatPointsAmount(amount) + " earned"
}

// SpentMessage — текст тоста после списания.
// Пример: SpentMessage(5) → "5 points spent"
func SpentMessage(amount int64) string {
	if amount < 0 {
		amount = -amount
	}
	return FormatPoints(amount) + " spent"
}

// NotEnoughPointsMessage — текст отказа гейта.
// Пример: NotEnoughPointsMessage(5, 3) → "Not enough points — need 5, have 3"
func NotEnoughPointsMessage(need, have int64) string {
	return fmt.Sprintf("Not enough points — need %s, have %s", FormatNumber(need), FormatNumber(have))
}
