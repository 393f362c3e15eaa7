package models

// YouParticipant is the participant name that stands for the current user.
const YouParticipant = "You"

// SplitParticipant is one person's share of a split expense.
type SplitParticipant struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	IsPaid bool    `json:"isPaid"`
}

// SplitExpense is a shared cost divided among participants.
type SplitExpense struct {
	ID           string             `json:"id"`
	Description  string             `json:"description"`
	TotalAmount  float64            `json:"totalAmount"`
	Date         string             `json:"date"`
	Participants []SplitParticipant `json:"participants"`
}

func (s *SplitExpense) EntityID() string      { return s.ID }
func (s *SplitExpense) SetEntityID(id string) { s.ID = id }

// MarkPaid flags the named participant as paid and reports whether it was found.
func (s *SplitExpense) MarkPaid(name string) bool {
	for i := range s.Participants {
		if s.Participants[i].Name == name {
			s.Participants[i].IsPaid = true
			return true
		}
	}
	return false
}
