package curriculum

import "github.com/okian/cfcoach/internal/domain/model"

// DefaultRank is the difficulty rank of topics missing from the table.
const DefaultRank = 3

// DifficultyTable maps topics to a static rank, 1 (easiest) to 5. It is
// immutable once built; lookups ignore case.
type DifficultyTable struct {
	ranks       map[string]int
	defaultRank int
}

// NewDifficultyTable copies ranks into a new table. Non-positive ranks are
// dropped.
func NewDifficultyTable(ranks map[string]int) DifficultyTable {
	t := DifficultyTable{ranks: make(map[string]int, len(ranks)), defaultRank: DefaultRank}
	for topic, r := range ranks {
		if r > 0 {
			t.ranks[model.NormalizeTopic(topic)] = r
		}
	}
	return t
}

// DefaultDifficultyTable returns the built-in ranking.
func DefaultDifficultyTable() DifficultyTable {
	return NewDifficultyTable(map[string]int{
		"implementation":      1,
		"math":                2,
		"binary search":       2,
		"strings":             2,
		"data structures":     3,
		"greedy":              3,
		"number theory":       4,
		"combinatorics":       4,
		"dp":                  4,
		"dynamic programming": 4,
		"graphs":              5,
		"geometry":            5,
	})
}

// With returns a copy of the table with overrides applied.
func (t DifficultyTable) With(overrides map[string]int) DifficultyTable {
	merged := make(map[string]int, len(t.ranks)+len(overrides))
	for k, v := range t.ranks {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	out := NewDifficultyTable(merged)
	out.defaultRank = t.defaultRank
	return out
}

// Rank returns the topic's rank, or DefaultRank when unknown.
func (t DifficultyTable) Rank(topic string) int {
	if r, ok := t.ranks[model.NormalizeTopic(topic)]; ok {
		return r
	}
	if t.defaultRank == 0 {
		return DefaultRank
	}
	return t.defaultRank
}

// Tier labels a practice difficulty band.
type Tier string

// Tiers, in increasing difficulty.
const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// Rating boundaries between tiers.
const (
	mediumFloor = 1200
	hardFloor   = 1900
)

// Band is an inclusive problem-rating range.
type Band struct {
	Min int
	Max int
}

// TierForRating maps a rating to a tier: below 1200 easy, below 1900 medium,
// otherwise hard. Unrated accounts (0) are easy.
func TierForRating(rating int) Tier {
	switch {
	case rating < mediumFloor:
		return TierEasy
	case rating < hardFloor:
		return TierMedium
	default:
		return TierHard
	}
}

// Band returns the problem-rating range practiced at this tier.
func (t Tier) Band() Band {
	switch t {
	case TierMedium:
		return Band{Min: 1200, Max: 1900}
	case TierHard:
		return Band{Min: 1900, Max: 3500}
	default:
		return Band{Min: 800, Max: 1200}
	}
}

// Contains reports whether rating is inside the band.
func (b Band) Contains(rating int) bool { return rating >= b.Min && rating <= b.Max }
