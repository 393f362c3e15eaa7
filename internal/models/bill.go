package models

// BillType distinguishes one-off bills from subscriptions.
type BillType string

const (
	BillTypeBill         BillType = "Bill"
	BillTypeSubscription BillType = "Subscription"
)

// BillStatus is the payment workflow state of a bill.
type BillStatus string

const (
	BillPendingApproval BillStatus = "Pending Approval"
	BillScheduled       BillStatus = "Scheduled"
	BillPaid            BillStatus = "Paid"
	BillDeclined        BillStatus = "Declined"
)

// Bill is an upcoming payment awaiting approval or already scheduled.
type Bill struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	DueDate string     `json:"dueDate"`
	Amount  float64    `json:"amount"`
	Type    BillType   `json:"type"`
	Status  BillStatus `json:"status"`
}

func (b *Bill) EntityID() string      { return b.ID }
func (b *Bill) SetEntityID(id string) { b.ID = id }
