package models

// Document is metadata for a file stored in the user's vault.
type Document struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Size       int64    `json:"size"`
	UploadDate string   `json:"uploadDate"`
	Tags       []string `json:"tags,omitempty"`
}

func (d *Document) EntityID() string      { return d.ID }
func (d *Document) SetEntityID(id string) { d.ID = id }

// CardType is the kind of card attached to a linked account.
type CardType string

const (
	CardDebit  CardType = "Debit"
	CardCredit CardType = "Credit"
)

// LinkedAccount is an external bank account or card.
type LinkedAccount struct {
	ID          string   `json:"id"`
	AccountName string   `json:"accountName"`
	CardType    CardType `json:"cardType"`

	// CardNumber holds only the masked or last four digits.
	CardNumber string  `json:"cardNumber"`
	Balance    float64 `json:"balance"`
}

func (l *LinkedAccount) EntityID() string      { return l.ID }
func (l *LinkedAccount) SetEntityID(id string) { l.ID = id }

// ForumPost is a community discussion post.
type ForumPost struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Comments  int    `json:"comments"`
}

func (p *ForumPost) EntityID() string      { return p.ID }
func (p *ForumPost) SetEntityID(id string) { p.ID = id }
