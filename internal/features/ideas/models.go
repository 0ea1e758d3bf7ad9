// Package ideas — посаженные идеи (проекты), их фильтрация и поиск.
package ideas

import "time"

// Status — стадия идеи.
type Status string

const (
	StatusPlanted Status = "planted"
	StatusGrowing Status = "growing"
	StatusBloomed Status = "bloomed"
)

// Valid сообщает, известна ли стадия.
func (s Status) Valid() bool {
	return s == StatusPlanted || s == StatusGrowing || s == StatusBloomed
}

// Source — откуда взята идея.
type Source string

const (
	SourceLive        Source = "live"        // Из хранилища
	SourcePlaceholder Source = "placeholder" // Демо-данные, только чтение
)

// Idea — посаженная идея.
type Idea struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Status      Status    `json:"status"`
	Source      Source    `json:"source"`
	Interested  int       `json:"interested"` // Заявок строителей; заполняется в карточке идеи
	CreatedAt   time.Time `json:"created_at"`
}

// PlantInput — данные новой идеи.
type PlantInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Filter — фильтр списка. Пустые поля не фильтруют.
type Filter struct {
	Status Status // "" или "all" — все стадии
	Tag    string // Точное совпадение без учёта регистра
	Query  string // Подстрока в заголовке или описании, без учёта регистра
	Author string
}

// Ограничения на поля идеи
const (
	maxTitleLength       = 120
	maxDescriptionLength = 5000
	maxTags              = 8
)
