package ideas

import "time"

// placeholderEpoch — фиксированная дата демо-идей.
var placeholderEpoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// placeholders — демо-идеи, которые показываются, пока сад пустой.
var placeholders = []Idea{
	{
		ID:          "placeholder-1",
		Author:      "0x1234...5678",
		Title:       "DeFi Garden Protocol",
		Description: "A yield farming protocol that grows your assets like a digital garden.",
		Tags:        []string{"DeFi", "Yield Farming", "Governance"},
		Status:      StatusGrowing,
	},
	{
		ID:          "placeholder-2",
		Author:      "0x9876...5432",
		Title:       "ZK Bloom Verification",
		Description: "Zero-knowledge proofs for private credential verification.",
		Tags:        []string{"ZK", "Privacy", "Identity"},
		Status:      StatusPlanted,
	},
	{
		ID:          "placeholder-3",
		Author:      "0x7777...8888",
		Title:       "Garden Governance DAO",
		Description: "Community decision making with garden-themed voting.",
		Tags:        []string{"DAO", "Governance", "Community"},
		Status:      StatusBloomed,
	},
	{
		ID:          "placeholder-4",
		Author:      "0x6666...9999",
		Title:       "Bloom Social Network",
		Description: "A social platform where connections grow like a garden ecosystem.",
		Tags:        []string{"Social", "Web3", "Community"},
		Status:      StatusBloomed,
	},
}

// Placeholders возвращает копии демо-идей с Source = placeholder.
func Placeholders() []Idea {
	out := make([]Idea, len(placeholders))
	for i, idea := range placeholders {
		idea.Source = SourcePlaceholder
		idea.Tags = append([]string(nil), idea.Tags...)
		idea.CreatedAt = placeholderEpoch.Add(-time.Duration(i) * 24 * time.Hour)
		out[i] = idea
	}
	return out
}
