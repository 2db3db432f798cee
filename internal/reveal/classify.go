package reveal

import (
	"sort"
	"strings"
)

// Tier ranks how close a guess came to the winning number. Higher is
// better; only the single best entry across a draw is reported.
type Tier int

const (
	TierNone Tier = iota
	TierOnePosition
	TierTwoPosition
	TierAnagram
	TierExact
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierAnagram:
		return "anagram"
	case TierTwoPosition:
		return "two-in-position"
	case TierOnePosition:
		return "one-in-position"
	default:
		return "none"
	}
}

// Classify compares a 3-digit guess against the winning number:
// exact equality beats a digit-multiset match, which beats two digits
// in correct position, which beats one. Malformed input is a no-match.
func Classify(guess, winning string) Tier {
	if len(guess) != 3 || len(winning) != 3 {
		return TierNone
	}
	if guess == winning {
		return TierExact
	}
	if sortDigits(guess) == sortDigits(winning) {
		return TierAnagram
	}

	positions := 0
	for i := 0; i < 3; i++ {
		if guess[i] == winning[i] {
			positions++
		}
	}
	switch positions {
	case 2:
		return TierTwoPosition
	case 1:
		return TierOnePosition
	}
	return TierNone
}

func sortDigits(s string) string {
	digits := strings.Split(s, "")
	sort.Strings(digits)
	return strings.Join(digits, "")
}
