// Package ledger реализует журнал очков (sprouts).
// models.go описывает события журнала, категории и фильтры выборки.
//
// Журнал только дописывается: события не меняются и не удаляются,
// баланс — всегда сумма всех событий идентичности.
package ledger

import "time"

// Category — за что начислены или списаны очки.
type Category string

const (
	CategoryPlanted   Category = "planted"   // Посадил идею
	CategoryNurtured  Category = "nurtured"  // Поддержал чужую идею
	CategoryCommented Category = "commented" // Идею прокомментировали
	CategoryJoined    Category = "joined"    // Вызвался строить идею ("Joined Project")
	CategoryWelcome   Category = "welcome"   // Первый вход кошельком
	CategoryBuilt     Category = "built"     // Идея доведена до продукта (выдаёт админ)
	CategorySpend     Category = "spend"     // Списание (комментарий и т.п.)
	CategoryRefund    Category = "refund"    // Возврат списания
)

// Categories — все известные категории в порядке отображения.
var Categories = []Category{
	CategoryPlanted, CategoryNurtured, CategoryCommented, CategoryJoined,
	CategoryBuilt, CategoryWelcome, CategorySpend, CategoryRefund,
}

// Valid сообщает, известна ли категория.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IsSpend — списания всегда отрицательные и только в этой категории.
func (c Category) IsSpend() bool { return c == CategorySpend }

// Event — одна запись журнала.
//
// Seq задаёт хранилище при вставке, по нему идёт порядок истории.
// ID генерируется заранее, чтобы повторная вставка того же события
// не создавала дубль.
type Event struct {
	Seq       int64     `json:"seq"`
	ID        string    `json:"id"`
	Identity  string    `json:"identity"`
	Category  Category  `json:"category"`
	Amount    int64     `json:"amount"` // > 0 начисление, < 0 списание
	Subject   string    `json:"subject,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter — условия выборки событий. Пустые поля не фильтруют.
type Filter struct {
	Identity  string
	Category  Category
	Subject   string
	BeforeSeq int64 // Только события с Seq < BeforeSeq (курсор страниц)
	Limit     int   // 0 — без ограничения
}

// CategoryTotal — сумма и количество событий одной категории.
type CategoryTotal struct {
	Category Category
	Sum      int64
	Count    int
}

// Summary — баланс и разбивка по категориям.
type Summary struct {
	Identity string             `json:"identity"`
	Balance  int64              `json:"balance"`
	Totals   map[Category]int64 `json:"totals"`
}
