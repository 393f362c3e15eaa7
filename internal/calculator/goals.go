package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/smartfinance/internal/models"
)

// Progress describes how far a goal has come.
type Progress struct {
	Percent   float64 `json:"percent"`   // 0-100, capped
	Remaining float64 `json:"remaining"` // Never negative
	Reached   bool    `json:"reached"`
}

// GoalProgress computes progress towards a savings goal or challenge target.
func GoalProgress(goal models.SavingsGoal) Progress {
	return progress(goal.CurrentAmount, goal.TargetAmount)
}

// ChallengeProgress is GoalProgress for community challenges.
func ChallengeProgress(c models.Challenge) Progress {
	return progress(c.CurrentAmount, c.TargetAmount)
}

func progress(current, target float64) Progress {
	cur := decimal.NewFromFloat(current)
	tgt := decimal.NewFromFloat(target)

	if !tgt.IsPositive() {
		return Progress{Percent: 100, Reached: true}
	}

	hundred := decimal.NewFromInt(100)
	pct := cur.Div(tgt).Mul(hundred)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	if pct.IsNegative() {
		pct = decimal.Zero
	}

	remaining := tgt.Sub(cur)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return Progress{
		Percent:   pct.Round(1).InexactFloat64(),
		Remaining: remaining.Round(2).InexactFloat64(),
		Reached:   !cur.LessThan(tgt),
	}
}
