// Package care реализует реакции на идеи (nurture/neglect).
// У пары (идентичность, идея) не больше одной активной реакции:
// повтор той же реакции снимает её, другая реакция заменяет.
package care

import "time"

// Kind — вид реакции.
type Kind string

const (
	KindNurture Kind = "nurture"
	KindNeglect Kind = "neglect"
)

// Kinds — все виды реакций.
var Kinds = []Kind{KindNurture, KindNeglect}

// Valid сообщает, известен ли вид реакции.
func (k Kind) Valid() bool {
	return k == KindNurture || k == KindNeglect
}

// Action — активная реакция идентичности на предмет.
type Action struct {
	Identity  string    `json:"identity"`
	Subject   string    `json:"subject"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Outcome — что сделал Apply.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeRemoved Outcome = "removed"
	OutcomeChanged Outcome = "changed"
)

// Result — итог Apply. ResultingKind пустой, если реакция снята.
type Result struct {
	Outcome       Outcome `json:"action"`
	ResultingKind Kind    `json:"resulting_kind,omitempty"`
	Rewarded      int64   `json:"rewarded,omitempty"` // Очки за первую поддержку
}

// Counts — количество активных реакций каждого вида. Есть все виды, даже нулевые.
type Counts map[Kind]int
