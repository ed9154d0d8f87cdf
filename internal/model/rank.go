package model

// Rank is the hunter rank ordinal, 1 (Beginner) through 4 (Master).
type Rank int

const (
	RankBeginner Rank = 1
	RankExplorer Rank = 2
	RankHunter   Rank = 3
	RankMaster   Rank = 4
)

var rankNames = map[Rank]string{
	RankBeginner: "Beginner",
	RankExplorer: "Explorer",
	RankHunter:   "Hunter",
	RankMaster:   "Master",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "Unknown"
}

func (r Rank) Valid() bool {
	return r >= RankBeginner && r <= RankMaster
}
