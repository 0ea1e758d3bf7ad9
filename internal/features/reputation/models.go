// Package reputation переводит баланс очков в уровень репутации
// и считает достижения профиля.
// models.go описывает уровни, снимок прогресса и достижения.
package reputation

// Tier — уровень репутации.
type Tier struct {
	Name      string `json:"name"`
	Level     int    `json:"level"` // 1 — нижний уровень
	MinPoints int64  `json:"min_points"`
}

// Snapshot — положение баланса в таблице уровней.
type Snapshot struct {
	Balance      int64   `json:"balance"`
	Tier         Tier    `json:"tier"`
	Next         *Tier   `json:"next,omitempty"` // nil на максимальном уровне
	Progress     float64 `json:"progress"`       // [0, 1]
	PointsToNext int64   `json:"points_to_next"` // 0 на максимальном уровне
}

// Achievement — достижение профиля.
type Achievement struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Unlocked    bool    `json:"unlocked"`
	Progress    float64 `json:"progress"` // [0, 1]
}

// Report — всё, что профиль показывает о репутации.
type Report struct {
	Identity     string           `json:"identity"`
	Snapshot     Snapshot         `json:"reputation"`
	Totals       map[string]int64 `json:"totals"`
	Achievements []Achievement    `json:"achievements"`
}
