package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/smartfinance/internal/models"
)

// SplitEvenly divides total between the named participants.
//
// Shares are whole cents. When the total does not divide evenly, the leftover
// cents go one each to the first participants, so the shares always sum to the
// total rounded to cents. The current user ("You") is marked as already paid.
func SplitEvenly(total float64, names []string) ([]models.SplitParticipant, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	if total < 0 {
		return nil, fmt.Errorf("total cannot be negative")
	}

	cents := decimal.NewFromFloat(total).Round(2).Shift(2).IntPart()
	n := int64(len(names))
	share, remainder := cents/n, cents%n

	out := make([]models.SplitParticipant, len(names))
	for i, name := range names {
		c := share
		if int64(i) < remainder {
			c++
		}
		out[i] = models.SplitParticipant{
			Name:   name,
			Amount: decimal.New(c, -2).InexactFloat64(),
			IsPaid: name == models.YouParticipant,
		}
	}
	return out, nil
}
