package reputation

import "github.com/BloomIdeas/BloomIdeas/internal/features/ledger"

// groveKeeperTier — уровень, открывающий достижение Grove Keeper.
const groveKeeperTier = "Grove-Keeper"

type categoryGoal struct {
	key, name, description string
	category               ledger.Category
	target                 int64
}

var categoryGoals = []categoryGoal{
	{"first_plant", "First Bloom", "Plant your first idea", ledger.CategoryPlanted, 50},
	{"nurturer", "Garden Nurturer", "Nurture 10 different ideas", ledger.CategoryNurtured, 10},
	{"commenter", "Thoughtful Gardener", "Receive thoughtful comments on your ideas", ledger.CategoryCommented, 10},
}

// Achievements считает достижения по суммам категорий и балансу.
func (t *Table) Achievements(totals map[ledger.Category]int64, balance int64) []Achievement {
	out := make([]Achievement, 0, len(categoryGoals)+1)
	for _, g := range categoryGoals {
		got := totals[g.category]
		out = append(out, Achievement{
			Key:         g.key,
			Name:        g.name,
			Description: g.description,
			Unlocked:    got >= g.target,
			Progress:    fraction(got, g.target),
		})
	}

	target := t.groveKeeper()
	out = append(out, Achievement{
		Key:         "reputation",
		Name:        "Grove Keeper",
		Description: "Reach " + target.Name + " reputation",
		Unlocked:    t.TierFor(balance).Level >= target.Level,
		Progress:    fraction(balance, target.MinPoints),
	})
	return out
}

// groveKeeper — уровень Grove-Keeper, а если его нет в таблице — максимальный.
func (t *Table) groveKeeper() Tier {
	for _, tier := range t.tiers {
		if tier.Name == groveKeeperTier {
			return tier
		}
	}
	return t.tiers[len(t.tiers)-1]
}

func fraction(got, target int64) float64 {
	if target <= 0 || got >= target {
		return 1
	}
	if got <= 0 {
		return 0
	}
	return float64(got) / float64(target)
}
