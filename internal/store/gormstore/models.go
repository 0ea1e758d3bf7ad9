package gormstore

import "time"

// Строки таблиц. Имена таблиц и колонок совпадают со схемой PostgreSQL.

type eventRow struct {
	Seq       int64     `gorm:"column:seq;primaryKey;autoIncrement"`
	EventID   string    `gorm:"column:id;size:64;uniqueIndex;not null"`
	Identity  string    `gorm:"column:identity;index:idx_point_events_identity;not null"`
	Category  string    `gorm:"column:category;not null"`
	Amount    int64     `gorm:"column:amount;not null"`
	Subject   string    `gorm:"column:subject;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (eventRow) TableName() string { return "point_events" }

type careRow struct {
	Identity  string    `gorm:"column:identity;primaryKey"`
	Subject   string    `gorm:"column:subject;primaryKey;index:idx_care_actions_subject"`
	Kind      string    `gorm:"column:kind;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (careRow) TableName() string { return "care_actions" }

type ideaRow struct {
	IdeaID      string    `gorm:"column:id;primaryKey"`
	Author      string    `gorm:"column:author;index;not null"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	Tags        []string  `gorm:"column:tags;serializer:json"`
	Status      string    `gorm:"column:status;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (ideaRow) TableName() string { return "ideas" }

type commentRow struct {
	CommentID    string    `gorm:"column:id;primaryKey"`
	Identity     string    `gorm:"column:identity;index;not null"`
	Subject      string    `gorm:"column:subject;index;not null"`
	Body         string    `gorm:"column:body;not null"`
	Cost         int64     `gorm:"column:cost;not null"`
	DebitEventID string    `gorm:"column:debit_event_id;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (commentRow) TableName() string { return "comments" }

type walletRow struct {
	Identity       string    `gorm:"column:identity;primaryKey"`
	SignatureCount int64     `gorm:"column:signature_count;not null"`
	FirstSeenAt    time.Time `gorm:"column:first_seen_at"`
	LastSeenAt     time.Time `gorm:"column:last_seen_at"`
}

func (walletRow) TableName() string { return "wallets" }

type interestRow struct {
	Identity  string    `gorm:"column:identity;primaryKey"`
	Subject   string    `gorm:"column:subject;primaryKey;index:idx_builder_interest_subject"`
	Status    string    `gorm:"column:status;not null;default:pending"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_builder_interest_created"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (interestRow) TableName() string { return "builder_interest" }

// allModels — таблицы для AutoMigrate.
var allModels = []any{&eventRow{}, &careRow{}, &ideaRow{}, &commentRow{}, &walletRow{}, &interestRow{}}
