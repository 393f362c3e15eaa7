package models

// SavingsGoal tracks progress towards a target amount.
type SavingsGoal struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`

	// TargetDate is optional (YYYY-MM-DD).
	TargetDate string `json:"targetDate,omitempty"`
}

func (g *SavingsGoal) EntityID() string      { return g.ID }
func (g *SavingsGoal) SetEntityID(id string) { g.ID = id }

// Challenge is a community savings challenge the user can join.
type Challenge struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	IsOpen        bool    `json:"isOpen"`
}

func (c *Challenge) EntityID() string      { return c.ID }
func (c *Challenge) SetEntityID(id string) { c.ID = id }

// Badge is an achievement earned by the user.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	EarnedDate  string `json:"earnedDate"`
}

func (b *Badge) EntityID() string      { return b.ID }
func (b *Badge) SetEntityID(id string) { b.ID = id }
