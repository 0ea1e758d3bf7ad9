// Package reputation — table.go содержит таблицу уровней и расчёт прогресса.
package reputation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
)

// DefaultTiersSpec — стандартная таблица уровней.
const DefaultTiersSpec = "Seed:0,Sprout:50,Bloom:150,Grove-Keeper:300,Garden Master:500"

// Table — упорядоченная таблица уровней. Неизменяемая после создания.
type Table struct {
	tiers []Tier
}

// NewTable проверяет и упорядочивает уровни.
//
// Правила:
//   - хотя бы один уровень
//   - первый порог равен 0 (пол для любых балансов)
//   - пороги строго растут, имена не пустые
//
// Level проставляется заново: 1, 2, 3...
func NewTable(tiers []Tier) (*Table, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers", common.ErrInvalidTiers)
	}
	out := make([]Tier, len(tiers))
	for i, t := range tiers {
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("%w: tier %d has no name", common.ErrInvalidTiers, i+1)
		}
		if i == 0 && t.MinPoints != 0 {
			return nil, fmt.Errorf("%w: first tier must start at 0", common.ErrInvalidTiers)
		}
		if i > 0 && t.MinPoints <= tiers[i-1].MinPoints {
			return nil, fmt.Errorf("%w: tier %q does not increase", common.ErrInvalidTiers, t.Name)
		}
		out[i] = Tier{Name: t.Name, Level: i + 1, MinPoints: t.MinPoints}
	}
	return &Table{tiers: out}, nil
}

// ParseTiers разбирает строку вида "Seed:0,Sprout:50,Bloom:150".
func ParseTiers(spec string) (*Table, error) {
	var tiers []Tier
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i := strings.LastIndex(part, ":")
		if i < 0 {
			return nil, fmt.Errorf("%w: %q has no threshold", common.ErrInvalidTiers, part)
		}
		minPoints, err := strconv.ParseInt(strings.TrimSpace(part[i+1:]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", common.ErrInvalidTiers, part, err)
		}
		tiers = append(tiers, Tier{Name: strings.TrimSpace(part[:i]), MinPoints: minPoints})
	}
	return NewTable(tiers)
}

// DefaultTable — таблица DefaultTiersSpec.
func DefaultTable() *Table {
	t, err := ParseTiers(DefaultTiersSpec)
	if err != nil {
		panic(err)
	}
	return t
}

// Tiers возвращает копию уровней по возрастанию.
func (t *Table) Tiers() []Tier {
	return append([]Tier(nil), t.tiers...)
}

// TierFor — самый высокий уровень с MinPoints <= balance.
// Баланс ниже нуля получает нижний уровень.
func (t *Table) TierFor(balance int64) Tier {
	cur := t.tiers[0]
	for _, tier := range t.tiers[1:] {
		if tier.MinPoints > balance {
			break
		}
		cur = tier
	}
	return cur
}

// NextTier — уровень сразу над tier. ok == false, если tier максимальный
// или его нет в таблице.
func (t *Table) NextTier(tier Tier) (Tier, bool) {
	for i, cur := range t.tiers {
		if cur.MinPoints == tier.MinPoints && cur.Name == tier.Name {
			if i+1 < len(t.tiers) {
				return t.tiers[i+1], true
			}
			return Tier{}, false
		}
	}
	return Tier{}, false
}

// ProgressFraction — доля пути от текущего уровня к следующему, в [0, 1].
// На максимальном уровне всегда 1.
func (t *Table) ProgressFraction(balance int64) float64 {
	cur := t.TierFor(balance)
	next, ok := t.NextTier(cur)
	if !ok {
		return 1
	}
	if balance <= cur.MinPoints {
		return 0
	}
	return float64(balance-cur.MinPoints) / float64(next.MinPoints-cur.MinPoints)
}

// Snapshot собирает уровень, следующий уровень и прогресс для баланса.
func (t *Table) Snapshot(balance int64) Snapshot {
	cur := t.TierFor(balance)
	s := Snapshot{
		Balance:  balance,
		Tier:     cur,
		Progress: t.ProgressFraction(balance),
	}
	if next, ok := t.NextTier(cur); ok {
		s.Next = &next
		s.PointsToNext = next.MinPoints - balance
	}
	return s
}
