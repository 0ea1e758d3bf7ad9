// Package common — pluralize.go содержит функции склонения
// и форматирования сумм для сообщений фронтенду.
package common

import "fmt"

// PluralizePoints возвращает правильную форму слова «point» для числа n.
//
// Примеры:
//
//	PluralizePoints(1)  → "point"
//	PluralizePoints(-1) → "point"
//	PluralizePoints(5)  → "points"
func PluralizePoints(n int64) string {
	if n == 1 || n == -1 {
		return "point"
	}
	return "points"
}

// FormatPoints форматирует баланс в читабельную строку.
// Пример: FormatPoints(1500) → "1,500 points"
func FormatPoints(balance int64) string {
	return fmt.Sprintf("%s %s", FormatNumber(balance), PluralizePoints(balance))
}

// FormatPointsAmount создаёт строку вида "+2 points" или "-5 points".
// Знак «+» или «-» добавляется автоматически.
//
// Примеры:
//
//	FormatPointsAmount(2)  → "+2 points"
//	FormatPointsAmount(-5) → "-5 points"
//	FormatPointsAmount(1)  → "+1 point"
func FormatPointsAmount(amount int64) string {
	if amount >= 0 {
		return fmt.Sprintf("+%s %s", FormatNumber(amount), PluralizePoints(amount))
	}
	return fmt.Sprintf("%s %s", FormatNumber(amount), PluralizePoints(amount))
}

// FormatNumber форматирует число с разделителями тысяч (запятыми).
// Пример: FormatNumber(2350) → "2,350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	// Рекурсивно добавляем разделители
	return fmt.Sprintf("%s,%03d", FormatNumber(n/1000), n%1000)
}
