package reveal

import (
	"github.com/shopspring/decimal"
)

// Prize is what a result tier pays: a dollar amount, a token grant, or
// nothing. Amounts come from the server's payout table and differ by
// the subscription the entry was made under.
type Prize struct {
	Dollars decimal.Decimal
	Tokens  int64
}

func (p Prize) IsZero() bool {
	return p.Dollars.IsZero() && p.Tokens == 0
}

const subscriptionPaid = "paid"

var (
	exactPrizePaid   = decimal.NewFromInt(1000)
	exactPrizeFree   = decimal.NewFromInt(50)
	anagramPrizePaid = decimal.NewFromInt(100)
	anagramPrizeFree = decimal.NewFromInt(5)
)

// PrizeFor returns the payout for a tier given the subscription status
// the entry was made under.
func PrizeFor(tier Tier, subscriptionAtEntry string) Prize {
	paid := subscriptionAtEntry == subscriptionPaid
	switch tier {
	case TierExact:
		if paid {
			return Prize{Dollars: exactPrizePaid}
		}
		return Prize{Dollars: exactPrizeFree}
	case TierAnagram:
		if paid {
			return Prize{Dollars: anagramPrizePaid}
		}
		return Prize{Dollars: anagramPrizeFree}
	case TierTwoPosition:
		return Prize{Tokens: 1}
	default:
		return Prize{}
	}
}
